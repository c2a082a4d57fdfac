// Package catalog talks to the remote catalog API: a GraphQL-style endpoint
// exposing the variant list, price updates, absolute inventory writes and the
// active-location lookup.
//
// Every outbound call passes through a shared token-bucket rate limiter and a
// bounded retry loop with exponential backoff and jitter. The limiter is the
// single serialization point for the remote API's concurrency budget, so the
// reconciliation engine can fan out freely and still respect it.
//
// # Error taxonomy
//
// Failures are classified at this boundary into exactly two kinds:
//
//   - Transient: HTTP 429, any 5xx, timeout/connection-reset/DNS transport
//     failures, and the THROTTLED semantic error embedded in a 200 body.
//     These are retried until the attempt budget is spent.
//   - Permanent: everything else, including structured validation errors
//     (userErrors) from writes and malformed response shapes. These propagate
//     immediately with status, body and attempt count attached.
//
// Callers treat permanent errors from writes as item-level failures; they
// never abort the run.
package catalog
