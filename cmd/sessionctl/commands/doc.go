// Package commands defines the sessionctl CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - keys     List stored keys, optionally filtered by prefix
//   - get      Print the raw value stored under one key
//   - purge    Bulk-delete one record category
//   - pending  Print a room's pending outgoing event queue
//
// # Implementation
//
// The root command opens the file-backed store and builds the session layer
// before any subcommand runs, so handlers share one store instance and one
// logger.
package commands
