// Package utils provides common utility functions for the catalog-sync
// application, currently type conversion helpers for raw database rows.
package utils
