// Package integrity provides operational health checks.
//
// # Checks Provided
//
//   - Database: Compares the countries table with the CountryRecord model
//     (missing columns, NOT NULL fields that are nullable in the database).
//   - Storage: Checks that the bucket holding the summary image exists.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks (503 when any fails).
//   - GET /integrity/database : Runs the schema check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
package integrity
