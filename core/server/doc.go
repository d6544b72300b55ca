// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structure and the helpers deriving Fiber settings
// from it (listen address, CORS origins, read/write timeouts).
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the start command when building the Fiber app.
package server
