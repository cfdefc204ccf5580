/*
Package assets reconciles local files with the assets attached to a release.

	 +-----------+     +--------+     +-----------------+     +-----------+
	 |  Locate   | --> |  Diff  | --> | Upload ∥ Update | --> | Aggregate |
	 | (globs)   |     | (name) |     |  (settle-all)   |     |  + sort   |
	 +-----------+     +--------+     +-----------------+     +-----+-----+
	                                                                |
	                                                  +-------------+-----------+
	                                                  | SyncChecksumAssets      |
	                                                  | checksums.sha256 / .json|
	                                                  +-------------------------+

🎯 Purpose:
- Expand configured glob patterns into concrete files
- Upload new assets and replace existing ones (delete, then upload)
- Publish checksum assets derived from the final asset set

🔄 Flow:
 1. Locate expands every AssetSpec. A mandatory pattern without matches is fatal.
    Names are de-duplicated case-insensitively, first match wins.
 2. DiffAssets matches desired assets to existing ones by exact name.
    Nothing is ever pruned: remote assets that are no longer configured stay.
 3. Upload and Update run concurrently. Every transfer settles on its own;
    one failure never cancels another.
 4. Aggregate folds results into an Outcome, keeping the input order.
 5. SyncChecksumAssets renders both checksum files from the name-sorted
    final list and replaces any existing copies.

⚡ Concurrency:
Each fan-out pre-allocates one result slot per task, so tasks never share
writable state and aggregation only happens after Wait.

🔍 Example:

	m, err := assets.NewManager(assets.Options{
		Store:  store,
		FS:     assets.NewDirFileSystem("."),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	ok, published, err := m.ModifyReleaseAssets(ctx, assets.ModifyParams{
		ReleaseID:         release.ID,
		Existing:          existing,
		Specs:             cfg.Assets,
		GenerateChecksums: true,
	})
*/
package assets
