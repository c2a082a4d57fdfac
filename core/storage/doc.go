// Package storage provides the object-storage client used to fetch discount
// files published by the merchandising team to an S3-compatible bucket
// (Minio, AWS S3).
//
// The client is a thin wrapper around the Minio SDK with strict transport
// timeouts so an unreachable endpoint fails the read quickly instead of
// stalling the run. Discount reads are soft failures for the sync: callers
// degrade to an empty discount map with a warning.
package storage
