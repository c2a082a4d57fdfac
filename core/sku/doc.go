// Package sku canonicalizes heterogeneous product identifiers into stable
// matching keys so records from the price feed, the inventory ledger, and the
// remote catalog can be joined reliably.
//
// Two normalization modes exist because upstream systems disagree about what
// a SKU looks like:
//
//   - numeric: strip every non-digit character, then strip leading zeros.
//     "SKU-00123" and "123" both become "123".
//   - alphanumeric: keep [A-Za-z0-9_-]; purely numeric remainders additionally
//     produce a zero-padded alias so "123" matches a catalog that publishes
//     "00123" (and vice versa).
//
// Normalization is a pure function and never fails; inputs that clean down to
// an empty string are reported as invalid so callers can drop the record with
// a warning instead of matching it against nothing.
package sku
