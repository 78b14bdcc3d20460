// Package history implements the Command History Store: a bounded,
// newest-first, atomically-persisted journal of executed commands with
// aggregate statistics, per spec §4.5. Persistence follows the teacher's
// write-temp-then-rename pattern throughout the corpus for atomic file
// writes, using encoding/json for the pretty-printed journal format
// spec §6 requires.
package history
