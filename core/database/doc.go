// Package database handles the optional MySQL connection used for release history.
//
// # Connect
//
// Connect opens a GORM connection with the MySQL driver, applies pool limits and
// verifies it with a ping bounded by the configured timeout.
//
// # Schema Inspection
//
// GetTableColumns returns the live column definitions of a table, which the history
// package compares against its models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Release history disabled", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "release_changes")
package database
