// Package parser tokenises an argument vector into a command.Args, per
// spec §4.2's grammar: long flags (--key=value, --key value, --key),
// grouped short flags (-abc), and positionals. It is a hand-written
// lexer/state machine, grounded on the corpus's hand-rolled argv parsers
// (e.g. the simply-cli command parser) rather than pflag/cobra — the
// grammar's grouped-short-flag and boolean-fallback tie-breaks don't match
// pflag's semantics, and bolting them on top of pflag would fight the
// library rather than use it.
package parser
