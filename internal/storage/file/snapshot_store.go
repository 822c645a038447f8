package file

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"listing-tracker/internal/domain"
	"listing-tracker/internal/storage"
)

const (
	snapshotPrefix = "snapshot_"
	snapshotSuffix = ".csv"
)

// SnapshotStore keeps one CSV file per capture day in a single directory.
// The date index is built once at construction by scanning the directory,
// so lookups never touch the filesystem listing again.
type SnapshotStore struct {
	mu    sync.Mutex
	dir   string
	dates []domain.Date // sorted ascending
}

var _ storage.SnapshotStore = (*SnapshotStore)(nil)

func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan snapshot dir: %w", err)
	}
	var dates []domain.Date
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotSuffix) {
			continue
		}
		raw := strings.TrimSuffix(strings.TrimPrefix(name, snapshotPrefix), snapshotSuffix)
		d, err := domain.ParseDate(raw)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return &SnapshotStore{dir: dir, dates: dates}, nil
}

func (s *SnapshotStore) path(d domain.Date) string {
	return filepath.Join(s.dir, snapshotPrefix+d.String()+snapshotSuffix)
}

func (s *SnapshotStore) Save(_ context.Context, snap *domain.Snapshot) error {
	if snap == nil || !snap.Date.Valid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := sort.Search(len(s.dates), func(i int) bool { return !s.dates[i].Before(snap.Date) })
	if idx < len(s.dates) && s.dates[idx] == snap.Date {
		return storage.ErrDuplicateKey
	}

	// First occurrence of a key wins within a day.
	seen := make(map[string]struct{}, len(snap.Listings))
	rows := [][]string{snapshotHeader}
	for _, l := range snap.Listings {
		if _, ok := seen[l.Key]; ok {
			continue
		}
		seen[l.Key] = struct{}{}
		rows = append(rows, listingToRow(l))
	}

	if err := writeCSVAtomic(s.dir, s.path(snap.Date), rows); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.Date, err)
	}

	s.dates = append(s.dates, domain.Date{})
	copy(s.dates[idx+1:], s.dates[idx:])
	s.dates[idx] = snap.Date
	return nil
}

func (s *SnapshotStore) Get(_ context.Context, d domain.Date) (*domain.Snapshot, error) {
	if !d.Valid() {
		return nil, storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasDate(d) {
		return nil, storage.ErrNotFound
	}
	return s.read(d)
}

// FindLatestBefore returns the newest snapshot captured strictly before d.
func (s *SnapshotStore) FindLatestBefore(_ context.Context, d domain.Date) (*domain.Snapshot, error) {
	if !d.Valid() {
		return nil, storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := sort.Search(len(s.dates), func(i int) bool { return !s.dates[i].Before(d) })
	if idx == 0 {
		return nil, storage.ErrNotFound
	}
	return s.read(s.dates[idx-1])
}

func (s *SnapshotStore) Dates(_ context.Context) ([]domain.Date, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Date, len(s.dates))
	copy(out, s.dates)
	return out, nil
}

func (s *SnapshotStore) hasDate(d domain.Date) bool {
	idx := sort.Search(len(s.dates), func(i int) bool { return !s.dates[i].Before(d) })
	return idx < len(s.dates) && s.dates[idx] == d
}

func (s *SnapshotStore) read(d domain.Date) (*domain.Snapshot, error) {
	f, err := os.Open(s.path(d))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("open snapshot %s: %w", d, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", d, err)
	}

	snap := &domain.Snapshot{Date: d}
	for i, row := range records {
		if i == 0 {
			continue // header
		}
		snap.Listings = append(snap.Listings, rowToListing(row))
	}
	return snap, nil
}

// writeCSVAtomic writes rows to a temp file in dir and renames it over
// path, so a crash mid-write never leaves a truncated file behind.
func writeCSVAtomic(dir, path string, rows [][]string) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
