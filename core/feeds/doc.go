// Package feeds fetches the two authoritative local inputs of a sync run:
// the product price feed and the inventory ledger.
//
// Both collaborators exist in two flavors selected by configuration: a
// database-backed feed reading raw rows from configurable tables, and an
// HTTP feed consuming JSON arrays from an internal endpoint. Records are
// surfaced with their raw string values; validation belongs to the
// downstream aggregation and reconciliation stages so one malformed row
// never aborts a run.
//
// A feed that cannot be fetched at all is a fatal setup error — the run
// aborts before any remote write is attempted.
package feeds
