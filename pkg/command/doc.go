// Package command defines the data model the framework dispatches against:
// Option, Command, Args, and the Registry that stores command trees and
// resolves names, aliases, and subcommand paths.
package command
