package ownerroll

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultTimeout = 120 * time.Second

// Importer downloads county NAL rolls and writes the combined owner
// lookup CSV.
type Importer struct {
	client     *http.Client
	counties   []County
	fileURL    func(County, int) string
	outputPath string
	verbose    bool
	clock      func() time.Time
}

// Options for creating an Importer.
type Options struct {
	// OutputPath is where the combined lookup CSV is written. Required.
	OutputPath string

	// Client defaults to an http.Client with a 120s timeout; the rolls
	// are large downloads.
	Client *http.Client

	// Counties defaults to the tracked counties.
	Counties []County

	// FileURL overrides the download URL, for tests.
	FileURL func(County, int) string

	Verbose bool
}

func NewImporter(opts Options) *Importer {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	counties := opts.Counties
	if counties == nil {
		counties = Counties
	}
	fileURL := opts.FileURL
	if fileURL == nil {
		fileURL = FileURL
	}
	return &Importer{
		client:     client,
		counties:   counties,
		fileURL:    fileURL,
		outputPath: opts.OutputPath,
		verbose:    opts.Verbose,
		clock:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic roll years.
func (im *Importer) WithClock(clock func() time.Time) *Importer {
	im.clock = clock
	return im
}

// ImportResult contains counters from one import.
type ImportResult struct {
	Year            int
	CountiesLoaded  int
	CountiesSkipped []string
	Parcels         int // rows written to the lookup, after filtering
}

// Run downloads every county roll and writes the lookup CSV. A county
// that cannot be loaded is skipped so the lookup still works for the
// others; the run fails only when no county loads at all, and the
// previous lookup file is left untouched in that case.
func (im *Importer) Run(ctx context.Context) (*ImportResult, error) {
	year := RollYear(im.clock())
	result := &ImportResult{Year: year}

	var combined []*Parcel
	for _, county := range im.counties {
		parcels, err := im.loadCounty(ctx, county, year)
		if err != nil {
			im.log("failed to load %s county: %v, skipping", county.Name, err)
			result.CountiesSkipped = append(result.CountiesSkipped, county.Name)
			continue
		}
		im.log("%s: %d parcels loaded", county.Name, len(parcels))
		result.CountiesLoaded++
		combined = append(combined, parcels...)
	}

	if result.CountiesLoaded == 0 {
		return nil, fmt.Errorf("no county roll could be loaded for %d", year)
	}

	// Rows with no owner name are useless for lookups.
	kept := combined[:0]
	for _, p := range combined {
		if p.OwnerName != "" {
			kept = append(kept, p)
		}
	}
	result.Parcels = len(kept)

	if err := im.writeLookup(kept); err != nil {
		return nil, err
	}
	im.log("saved %s with %d parcels", im.outputPath, result.Parcels)

	return result, nil
}

// loadCounty downloads and parses one county roll. When the requested
// year's roll is not posted yet the previous year's final roll is used.
func (im *Importer) loadCounty(ctx context.Context, county County, year int) ([]*Parcel, error) {
	data, err := im.download(ctx, im.fileURL(county, year))
	if err != nil {
		im.log("%s %d roll unavailable (%v), trying %d", county.Name, year, err, year-1)
		data, err = im.download(ctx, im.fileURL(county, year-1))
		if err != nil {
			return nil, err
		}
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	var csvFile *zip.File
	for _, f := range zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			csvFile = f
			break
		}
	}
	if csvFile == nil {
		return nil, fmt.Errorf("no CSV found in zip")
	}

	rc, err := csvFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", csvFile.Name, err)
	}
	defer rc.Close()

	return ParseNAL(rc, county.Name)
}

func (im *Importer) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := im.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download roll: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download roll: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read roll body: %w", err)
	}
	return data, nil
}

// writeLookup writes the combined table through a temp file and rename,
// so a failed import never truncates the existing lookup.
func (im *Importer) writeLookup(parcels []*Parcel) error {
	dir := filepath.Dir(im.outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create lookup dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp lookup: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	w.Write(append(append([]string{}, keepColumns...), "COUNTY", "FULL_PHY_ADDR"))
	for _, p := range parcels {
		w.Write([]string{
			p.CountyNo, p.ParcelID, p.OwnerName,
			p.OwnAddr1, p.OwnAddr2, p.OwnAddr3,
			p.PhysAddr1, p.PhysAddr2, p.PhysCity, p.PhysZip,
			p.County, p.FullPhysAddr,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("write lookup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp lookup: %w", err)
	}
	if err := os.Rename(tmp.Name(), im.outputPath); err != nil {
		return fmt.Errorf("replace lookup: %w", err)
	}
	return nil
}

func (im *Importer) log(format string, args ...interface{}) {
	if im.verbose {
		log.Printf("[ownerroll] "+format, args...)
	}
}
