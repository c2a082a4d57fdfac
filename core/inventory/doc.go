// Package inventory reduces the inventory ledger into one current on-hand
// quantity per SKU.
//
// The ledger is append-only and may hold many historical snapshots for the
// same SKU; only the most recent entry by timestamp counts. From that entry a
// calculated quantity is derived (initial + received - shipped, floored at
// zero) and then passed through the safety-stock policy: at or below the
// configured threshold nothing is published for sale remotely, because the
// remaining units are reserved for the non-digital channel.
//
// A SKU absent from the aggregate means "do not touch inventory for this SKU
// this run" — it is never the same thing as a published quantity of zero.
package inventory
