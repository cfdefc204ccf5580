/*
Package publish turns an annotated tag into a release.

🔄 Flow:
 1. Read the tag annotation and render the title and notes
 2. Get the release by tag; create it when missing, edit it when it differs
 3. Reconcile assets (see package assets)
 4. Add reactions, then write step outputs and the job summary

A run that uploaded some assets but not others still returns a Result, with
Succeeded set to false, so outputs describe what was actually published.
*/
package publish
