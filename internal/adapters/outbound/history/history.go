package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/abdidvp/docqms/internal/domain"
)

const historyFile = ".docqms/history/scores.json"

// DefaultLimit is the number of entries kept when none is configured.
const DefaultLimit = 500

// FileHistory implements domain.ScoreHistory using JSON file storage.
// Only the most recent limit entries are kept.
type FileHistory struct {
	mu    sync.Mutex
	limit int
}

func New() *FileHistory {
	return &FileHistory{limit: DefaultLimit}
}

// NewWithLimit creates a FileHistory keeping at most limit entries.
func NewWithLimit(limit int) *FileHistory {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &FileHistory{limit: limit}
}

func (h *FileHistory) Save(projectPath string, entry domain.ScoreEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.load(projectPath)
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > h.limit {
		entries = entries[len(entries)-h.limit:]
	}

	fp := filepath.Join(projectPath, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	// Write to a sibling file first so readers never see a truncated history.
	tmp := fp + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, fp)
}

func (h *FileHistory) Load(projectPath string) ([]domain.ScoreEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load(projectPath)
}

func (h *FileHistory) load(projectPath string) ([]domain.ScoreEntry, error) {
	fp := filepath.Join(projectPath, historyFile)

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.ScoreEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", historyFile, err)
	}

	return entries, nil
}
