// Package config provides configuration management for the Country API.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, CORS origins)
//   - Database: MySQL (or SQLite) connection details
//   - Storage: S3/MinIO credentials and the bucket holding the summary image
//   - Log: Logging level and format
//   - Sources: External country and exchange-rate endpoints
//   - Refresh: GDP multiplier and summary report settings
//
// Defaults come from the `default` struct tags; every key can be overridden by
// an environment variable named SECTION_KEY (e.g. DATABASE_HOST, SOURCES_TIMEOUT_SECONDS).
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
