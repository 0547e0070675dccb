// Package cli defines the Cobra command tree for the artifactsplus CLI. Each
// file in this package registers one top-level command with the root command.
// Commands load configuration, delegate to internal packages and only handle
// argument parsing and output formatting.
package cli
