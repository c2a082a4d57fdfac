// Package reconcile joins the local product state against the remote catalog
// and converges the remote side, SKU by SKU.
//
// A run is one batch pass: snapshot all sources, index both sides by
// normalized SKU, diff price and published quantity per joined item, and
// issue the minimal set of writes. The engine is idempotent: rerunning with
// unchanged inputs issues zero writes, because every write is gated on an
// observed difference.
//
// # Concurrency
//
// Item updates fan out as independent goroutines, throttled only by the
// catalog client's shared token bucket. Items never share state beyond that
// bucket and the atomic statistics accumulator, so any subset of items can
// fail without touching the others. The run always drains every item before
// reporting its summary.
//
// # Policy
//
// The iteration set is an explicit operator choice: local_first walks the
// local catalog and skips SKUs missing remotely; shopify_first walks the
// remote catalog and skips SKUs missing locally. Operators pick the side
// whose spurious entries they want ignored. Items with a discount entry are
// dispatched first so discount-related failures surface early in a partial
// run.
package reconcile
