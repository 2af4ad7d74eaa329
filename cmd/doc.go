// Package cmd implements the command-line interface for lDDB. It provides
// a hierarchical command structure with operations for running the server
// and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Commands for starting and configuring the lDDB server
//   - table: Commands for table management (create, describe, list)
//   - item: Commands for item operations (put, get, delete)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See lddb -help for a list of all commands.
package cmd
