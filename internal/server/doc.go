// Package server runs the short-lived HTTP listener that completes the Spotify authorization code flow.
//
// # Router
//
// [BasicRouter] wraps [http.ServeMux] with method filtering and a [Middleware] stack.
// Middleware runs in the order it was added.
//
// # Callback
//
// [OAuthHandler] serves /callback. It checks the state parameter, exchanges the code for a token
// and publishes exactly one [OAuthResult]. Later requests are rejected.
//
// [Callback] binds the router to the configured host and port, waits for that result or for the
// context to end, then shuts the listener down.
package server
