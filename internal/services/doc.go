// Package services implements the catalog transport against the Spotify Web API.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 for authentication with automatic token refresh.
// The [oauth2.Client] refreshes expired tokens using the refresh token; every newly issued
// token is reported through [SpotifyService.SetTokenRefreshCallback] so callers can persist it.
//
// Each method maps to a single Web API call and returns the raw wire page. Traversal of
// paginated listings (offset and cursor) lives in the catalog package, which is where page
// consistency is verified.
//
// # OAuth Service Extension
//
// The [OAuthService] interface is satisfied by [SpotifyService] for the server-side
// authorization code flow used by the auth command.
//
// # Pacing and Retries
//
// Requests are paced by a [rate.Limiter]. Responses with status 429 are retried after the
// Retry-After delay; 5xx responses are retried with exponential back-off. Both give up after
// the configured number of retries.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrTokenExpired] : OAuth token expired, reauthorization needed
//   - [shared.ErrRateLimited] : retries exhausted on 429
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrInvalidArgument] : page size or batch size outside the API ceiling
//
// # Playlist Writes
//
// [SpotifyService.ReplacePlaylistItems] replaces the contents with the first 100 tracks and
// appends the remainder in batches of 100, returning the last snapshot id.
package services
