package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/abdidvp/docqms/internal/domain"
)

// Store is an append-only, file-based implementation of domain.FixJournal.
// Each line of the file is one JSON-encoded entry.
type Store struct {
	mu    sync.Mutex
	newID func() string
}

// New creates a journal store that assigns random UUIDs to entries.
func New() *Store {
	return &Store{newID: func() string { return uuid.NewString() }}
}

// Append writes entry to the journal of projectPath, assigning an ID when
// the entry has none.
func (s *Store) Append(projectPath string, entry domain.JournalEntry) error {
	if entry.ID == "" {
		entry.ID = s.newID()
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding journal entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(journalDir(projectPath), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(journalPath(projectPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load returns all entries in append order. A missing journal is empty.
func (s *Store) Load(projectPath string) ([]domain.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(journalPath(projectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []domain.JournalEntry
	dec := json.NewDecoder(f)
	for n := 1; dec.More(); n++ {
		var e domain.JournalEntry
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("journal entry %d: %w", n, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Clear removes the journal of projectPath.
func (s *Store) Clear(projectPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(journalPath(projectPath)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func journalDir(projectPath string) string {
	return filepath.Join(projectPath, ".docqms", "journal")
}

func journalPath(projectPath string) string {
	return filepath.Join(journalDir(projectPath), "fixes.jsonl")
}
