package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultPath is "<cwd>/.stega/history.json", the default location spec
// §6 specifies.
func DefaultPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, ".stega", "history.json"), nil
}

// Store is the Command History Store: a bounded, newest-first, persisted
// journal. The zero value is not usable — build one with New.
type Store struct {
	mu         sync.Mutex
	path       string
	maxEntries int
	exclude    map[string]bool // lower-cased command names
	entries    []Entry         // newest-first
}

// Option configures a Store at construction.
type Option func(*Store)

// WithExclude sets the case-insensitive list of command names never
// recorded.
func WithExclude(names ...string) Option {
	return func(s *Store) {
		for _, n := range names {
			s.exclude[strings.ToLower(n)] = true
		}
	}
}

// New builds a Store backed by path, capped at maxEntries, and loads any
// existing journal. A missing file is treated as an empty journal without
// being overwritten; a corrupt file is treated as empty and will be
// overwritten on the next save.
func New(path string, maxEntries int, opts ...Option) (*Store, error) {
	s := &Store{
		path:       path,
		maxEntries: maxEntries,
		exclude:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.LoadHistory(); err != nil {
		return nil, err
	}
	return s, nil
}

// IsExcluded reports whether name (case-insensitive) is on the exclude list.
func (s *Store) IsExcluded(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exclude[strings.ToLower(name)]
}

// AddEntry prepends entry (newest-first) and truncates the tail to
// maxEntries, persisting atomically. Excluded command names and a
// maxEntries of 0 make this a no-op.
func (s *Store) AddEntry(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxEntries == 0 || s.exclude[strings.ToLower(entry.Command)] {
		return nil
	}
	if entry.ID == "" {
		entry.ID = NewID()
	}

	s.entries = append([]Entry{entry}, s.entries...)
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[:s.maxEntries]
	}
	return s.persistLocked()
}

// GetHistory returns entries (newest-first) matching filter, or all
// entries if filter is nil.
func (s *Store) GetHistory(filter func(Entry) bool) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if filter == nil {
		out := make([]Entry, len(s.entries))
		copy(out, s.entries)
		return out
	}
	var out []Entry
	for _, e := range s.entries {
		if filter(e) {
			out = append(out, e)
		}
	}
	return out
}

// SearchHistory tokenises query on whitespace; an entry matches iff every
// term is a case-insensitive substring of command + serialised(args).
func (s *Store) SearchHistory(query string) []Entry {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return s.GetHistory(nil)
	}
	return s.GetHistory(func(e Entry) bool {
		haystack := strings.ToLower(e.Command + serializeArgs(e.Args))
		for _, term := range terms {
			if !strings.Contains(haystack, term) {
				return false
			}
		}
		return true
	})
}

func serializeArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	b, err := json.Marshal(args)
	if err != nil {
		return ""
	}
	return string(b)
}

// ClearHistory empties the journal and persists the change.
func (s *Store) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return s.persistLocked()
}

// LoadHistory (re)reads the journal file. A missing file becomes an empty
// journal without being written back; a file that fails to parse also
// becomes an empty journal, but is overwritten on the next save (per
// spec §4.5's corruption-tolerance invariant).
func (s *Store) LoadHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.entries = nil
		return nil
	}
	if err != nil {
		return err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.entries = nil
		return nil
	}
	s.entries = entries
	return nil
}

// persistLocked writes the journal to a sibling temp file and renames it
// into place, so readers never observe a partial write. Caller must hold
// s.mu.
func (s *Store) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".history-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path)
}
