// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and pins the field names used across the sync.
//
// # Run Correlation
//
// Every reconciliation run carries a run identifier. The WithRun helper
// attaches it as the run_id field so all records of one batch pass can be
// correlated after the fact.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "json"})
//	log.Info("sync started")
package logger
