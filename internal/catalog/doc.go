// Package catalog defines the [Client] interface for the remote music
// catalog and implements it for the Spotify Web API.
//
// # Client Interface
//
// Entry resolution consumes the catalog exclusively through [Client]:
// free-text search per kind (track, album, artist, playlist), lookup by
// opaque catalog ID, album track listings, artist top tracks and related
// artists, and paginated playlist tracks.
//
// The interface exists for dependency injection: resolvers receive a Client
// rather than reaching for a shared default, so tests substitute a fake
// transport and pipeline behavior stays deterministic.
//
// # Spotify Implementation
//
// [SpotifyClient] authenticates with the OAuth2 client-credentials flow and
// layers three protections over every request:
//
//   - [retryablehttp.Client] retries transient transport failures with backoff
//   - [gobreaker.CircuitBreaker] opens after consecutive API failures
//   - [rate.Limiter] enforces a small delay between outbound calls
//
// The rate limit is deliberate: the resolution pipeline issues requests
// strictly sequentially, and the limiter keeps that sequence polite toward
// the API. Do not parallelize around it.
//
// # Error Handling
//
// Responses map onto sentinel errors from the shared package:
//   - [shared.ErrNotFound] : 404 or empty candidate list
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrMalformedResponse] : undecodable payload
//   - [shared.ErrNotAuthenticated] : token acquisition failed
package catalog
