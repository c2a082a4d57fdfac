// Package config provides configuration management for the catalog sync.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Log: logging level and format
//   - Database: merchant MySQL connection details
//   - Storage: S3/MinIO credentials for object-stored discount files
//   - Feeds: local product and inventory-ledger feed sources
//   - Catalog: remote catalog API endpoint, token and rate limits
//   - Discount: discount overlay location
//   - Sync: reconciliation mode, type, safety stock and dry-run flag
//
// Environment variables map onto nested keys with underscores, so
// CATALOG_TOKEN sets catalog.token and SYNC_DRY_RUN sets sync.dry_run.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Catalog.Endpoint)
package config
