// Package tasks runs long board operations with progress reporting.
//
// # Bulk Export
//
// [BulkExport] writes one board in several formats at once. A small worker pool renders each format into
// the output directory and a manifest summarizing the run is written last:
//
//	out/
//	  intune_board.json
//	  intune_board.csv
//	  intune_board.txt
//	  markdown/README.md
//	  markdown/story.png (when a story source is given)
//	  export_manifest.json
//
// A failed format does not stop the others. Its error is reported in the result and the manifest.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Sends never block: when the channel is full
// the update is dropped, so callers that only care about the result can pass nil.
package tasks
