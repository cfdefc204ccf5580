/*
Package config manages configuration parsing and validation for tagrelease.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   YAML    | |   HCL   | |   JSON    |
	|  Parser   | | Parser  | |  Parser   |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Loads the release configuration file (default .github/tagrelease.yml)
- Merges action inputs and flags over the file
- Validates reactions and asset specs

🔄 Flow:
 1. LoadOrDefault reads the file, or returns defaults when it is missing
 2. The parser is picked by file extension
 3. Merge applies Overrides: assets and reactions append, set scalars replace
 4. Validate normalizes the result

🔘 Tri-state values:
OptionalBool distinguishes "false" from "not given", so an input left empty
never overrides the file and prerelease can still be inferred from the tag.
*/
package config
