// Package server holds the HTTP server configuration.
//
// The Config struct defines the listen port, the optional API key, the graceful
// shutdown window and the per-request reconciliation timeout. It is embedded by
// core/config and read by the serve command.
package server
