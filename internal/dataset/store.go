// Package dataset persists submissions in an append-only CSV file and loads
// them back for clustering, tolerating corrupt historical lines.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

// Header is the column layout of the dataset file. Field order is the contract;
// the loader reads columns by position.
var Header = []string{
	"distance_km",
	"electricity_kwh",
	"meat_meals_per_week",
	"spend_amount",
	"transport_emission",
	"electricity_emission",
	"food_emission",
	"shopping_emission",
}

// ErrNotFound is returned by Load when the dataset file does not exist
var ErrNotFound = errors.New("dataset not found")

var (
	locksMu sync.Mutex
	locks   = make(map[string]*sync.Mutex)
)

// lockFor returns the process-wide lock guarding the dataset at path
func lockFor(path string) *sync.Mutex {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}

	locksMu.Lock()
	defer locksMu.Unlock()

	mu, ok := locks[abs]
	if !ok {
		mu = &sync.Mutex{}
		locks[abs] = mu
	}
	return mu
}

// Store appends rows to and loads rows from a dataset file
type Store struct {
	path string
}

// NewStore creates a store for the dataset at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the dataset file path
func (s *Store) Path() string {
	return s.path
}

// Append writes one row, creating the file and its header on first use.
// The dataset lock is held for the whole write so concurrent appends never interleave.
func (s *Store) Append(row models.DatasetRow) error {
	return s.withLock(func() error {
		if dir := filepath.Dir(s.path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create dataset directory: %w", err)
			}
		}

		f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open dataset: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("failed to stat dataset: %w", err)
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if info.Size() == 0 {
			if err := w.Write(Header); err != nil {
				return fmt.Errorf("failed to encode header: %w", err)
			}
		}
		if err := w.Write(encodeRow(row)); err != nil {
			return fmt.Errorf("failed to encode row: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("failed to encode row: %w", err)
		}

		// Single write so a reader never observes half a line.
		if _, err := f.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
		return f.Sync()
	})
}

// Load reads every row of the dataset, skipping malformed lines and dropping
// rows whose emission fields are missing or unparseable.
// It returns ErrNotFound when the file does not exist.
func (s *Store) Load() ([]models.DatasetRow, models.LoadStats, error) {
	var (
		rows  []models.DatasetRow
		stats models.LoadStats
	)

	err := s.withLock(func() error {
		data, err := os.ReadFile(s.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to read dataset: %w", err)
		}

		rows, stats, err = Parse(data)
		return err
	})
	if err != nil {
		return nil, models.LoadStats{}, err
	}

	if stats.Skipped > 0 || stats.Dropped > 0 {
		log.Debug().
			Str("path", s.path).
			Int("skipped", stats.Skipped).
			Int("dropped", stats.Dropped).
			Int("retained", stats.Retained).
			Msg("Dataset rows excluded during load")
	}
	return rows, stats, nil
}

// withLock runs fn while holding the dataset lock, releasing it on every exit path
func (s *Store) withLock(fn func() error) error {
	mu := lockFor(s.path)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

func encodeRow(row models.DatasetRow) []string {
	return []string{
		formatFloat(row.DistanceKm),
		formatFloat(row.ElectricityKWh),
		strconv.Itoa(row.MeatMealsPerWeek),
		formatFloat(row.SpendAmount),
		formatFloat(row.Emissions.Transport),
		formatFloat(row.Emissions.Electricity),
		formatFloat(row.Emissions.Food),
		formatFloat(row.Emissions.Shopping),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
