// Package services implements the Spotify Web API client used by the sorter.
//
// # Service Interface
//
// [Service] abstracts the provider so that the CLI, TUI, and task engine can
// run against a test double.
//
// # Authentication
//
// [SpotifyService] authenticates as a public OAuth client using the
// authorization code flow with PKCE (RFC 7636). [SpotifyService.BeginLogin]
// creates a single-use [LoginAttempt] carrying the code verifier from the
// initiation step to [SpotifyService.CompleteLogin]; the attempt is consumed
// on the first completion regardless of outcome, so a stale verifier is never
// resent. Tokens are [oauth2.Token] values and the authenticated HTTP client
// comes from [oauth2.Config.Client], which refreshes transparently.
//
// # Pagination and batching
//
// List endpoints are aggregated by following the response's next cursor until
// it is absent. A repeated cursor aborts the aggregation rather than looping.
// Audio-feature lookups and playlist appends are issued in sequential batches
// of at most 100 IDs/URIs.
//
// # Error Handling
//
// Failures carry types the caller can switch on:
//   - [*APIError] : non-2xx platform response; aborts the whole operation
//   - [*AuthError] : token endpoint error payload, surfaced verbatim
//   - [*PartialPublishError] : playlist created but some append batches failed
//   - [shared.ErrNotAuthenticated] , [shared.ErrNoLoginInProgress] ,
//     [shared.ErrPaginationLoop] : flow sentinels
//
// No partial result is ever reported as success.
package services
