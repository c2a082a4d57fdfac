// Package database handles merchant database connections and schema checks.
//
// It provides a wrapper around GORM to properly configure MySQL connections
// based on the application's configuration.
//
// # Connect
//
// The Connect function establishes the connection with conservative pool
// settings and hard connect/read/write timeouts in the DSN, then verifies it
// with a bounded ping.
//
// # Schema Verification
//
// Database-sourced feeds read raw rows from operator-named tables, so the
// package includes VerifyTable to confirm the required columns exist before
// a run starts.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("database connection failed", zap.Error(err))
//	}
//
//	err = database.VerifyTable(db, "products", []string{"sku", "price"})
package database
