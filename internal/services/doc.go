// Package services implements the HTTP collaborators of the card customization view.
//
// # Search
//
// The [Searcher] interface abstracts where modal search results come from:
//   - [APIService] posts to the InTune backend's /api/search, which proxies Spotify with the user's session.
//   - [SpotifySearcher] calls the Spotify Web API directly with an app token from the client credentials grant.
//
// Both return [models.Item] values already reduced to what a card displays.
//
// # Backend Endpoints
//
// [APIService] also wraps the two backend features outside the grid:
//   - POST /create-playlist creates a private playlist from the user's top tracks
//   - GET /generate-story returns a PNG story image
//
// Requests carry an X-Request-ID header so backend logs can be correlated with client logs.
// When a session cookie is configured it is forwarded as-is.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : transport failure or unexpected status
//   - [shared.ErrSearchFailed] : search rejected, message is safe to display
//   - [shared.ErrPlaylistFailed] : playlist creation rejected
//   - [shared.ErrMissingCredentials] : direct search without client credentials
package services
