package file

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"listing-tracker/internal/domain"
	"listing-tracker/internal/storage"
)

// LedgerStore persists the first-seen ledger as a single CSV file.
// A missing file is an empty ledger, never an error.
type LedgerStore struct {
	mu   sync.Mutex
	path string
}

var _ storage.LedgerStore = (*LedgerStore)(nil)

func NewLedgerStore(path string) (*LedgerStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	return &LedgerStore{path: path}, nil
}

func (s *LedgerStore) Load(_ context.Context) ([]*domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	var entries []*domain.LedgerEntry
	for i, row := range records {
		if i == 0 {
			continue // header
		}
		if len(row) == 0 || row[0] == "" {
			continue
		}
		entries = append(entries, rowToEntry(row))
	}
	return entries, nil
}

func (s *LedgerStore) Replace(_ context.Context, entries []*domain.LedgerEntry) error {
	for _, e := range entries {
		if e == nil || e.Key == "" {
			return storage.ErrInvalidInput
		}
	}

	sorted := make([]*domain.LedgerEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	rows := [][]string{ledgerHeader}
	for _, e := range sorted {
		rows = append(rows, entryToRow(e))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeCSVAtomic(filepath.Dir(s.path), s.path, rows); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}
