// Package repositories implements SQLite persistence for the custom view.
//
// Key Implementations:
//   - [LocalStorage] : string key/value table standing in for browser local storage
//   - [HeaderRepository] : header label overrides as a JSON object under "intune_custom_headers"
//   - [BoardRepository] : populated cards as a JSON array under "intune_custom_cards"
//   - [PlaylistHistoryRepository] : playlists created from the board, newest first
//
// [HeaderRepository] and [BoardRepository] satisfy the store interfaces of the custom package, so the
// controller never touches SQL directly.
//
// Sequence numbers provide stable, human-readable ordering (e.g., playlist #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
