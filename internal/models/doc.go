// Package models defines the domain entities of the InTune custom view.
//
// The package contains two categories of types:
//
// 1. Card state: the entities the card customization controller mutates
//   - [CardType] : artist or track grid
//   - [Item] : a selectable search result reduced to its display fields
//   - [Card] : one grid slot, either placeholder or populated
//   - [HeaderOverrides] : user-edited section labels keyed by field name
//
// 2. Backend DTOs: request and response shapes for the InTune HTTP API
//   - [SearchRequest], [SearchResponse] : POST /api/search
//   - [PlaylistRequest], [PlaylistResponse] : POST /create-playlist
//   - [SpotifyArtist], [SpotifyTrack] : raw Spotify objects returned as search items
//
// A Card is never partially populated: [Card.Populate] and [Card.Clear] replace every display field at once.
package models
