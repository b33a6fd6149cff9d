// Package acl is the anti-corruption layer between the quote generator and
// the hosted platform that provides sign-in, per-user storage, billing and
// model invocation.
//
// Platform wire shapes (camelCase JSON, millisecond retry hints, nullable
// plans) stay inside this package. Callers only see domain types and
// domain errors.
//
// # Components
//
//   - [PlatformClient]: implements ports.Platform and ports.HealthChecker
//   - [BaseAdapter]: request helpers that map failures to domain errors
//   - [MapHTTPError]: platform error envelope and status code mapping
//   - [DecodeResponse]: generic JSON response decoder
//
// # Error Handling Strategy
//
// The platform reports errors as {"error":{"type","message","retryAfter"}}.
// A recognised type takes precedence over the HTTP status:
//   - insufficient_credits or 402 → [domain.ErrInsufficientCredits]
//   - rate_limit_exceeded or 429 → [domain.ErrRateLimited], carrying the
//     body's retryAfter or the Retry-After header
//   - 401 → [domain.ErrUnauthenticated]
//   - 404 → [domain.ErrNotFound]
//   - 400/422 → [domain.ErrValidation]
//   - 5xx/Network → [domain.ErrUnavailable]
//
// Client-level errors ([clients.ErrCircuitOpen], [clients.ErrMaxRetriesExceeded])
// are also translated to [domain.ErrUnavailable] with appropriate context.
package acl
