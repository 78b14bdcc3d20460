// Package dispatch implements the Command Dispatcher and its middleware
// chain: parse, resolve, authorize, default, validate, and run a
// command's lifecycle — the nine-step algorithm of spec §4.3.
package dispatch
