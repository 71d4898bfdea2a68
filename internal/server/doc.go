// Package server provides HTTP routing, middleware, and the login callback handler.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Login Callback Handler
//
// [CallbackHandler] implements the redirect leg of the authorization code + PKCE flow.
//
// The handler validates the state parameter (CSRF protection), completes the code exchange using the
// attempt's verifier, and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Current Usage
//
// When the user runs the auth command, a temporary HTTP server starts on a loopback address,
// handles the callback, and shuts down after receiving the token.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
