// Package database handles database connections, schema migrations and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL (production) or SQLite
// (local runs and tests) connections from the application's configuration.
//
// # Connect
//
// Connect opens the pool and pings it; Close releases it. The handle is passed
// explicitly to every component that needs it, there is no package level state.
//
// # Migrations
//
// The schema is versioned SQL embedded in the binary (migrations/<dialect>) and
// applied with golang-migrate by Migrate, once at startup or through the
// `migrate` command. Application code never creates tables itself.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table, used by the `migrate` command to
// print the resulting layout.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//	version, err := database.Migrate(db, cfg.Database.Driver)
//
//	columns, err := database.GetTableColumns(db, "countries")
package database
