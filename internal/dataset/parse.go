package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

const (
	columnCount      = 8
	emissionColumn0  = 4
	meatMealsColumn  = 2
	firstInputColumn = 0

	maxLineBytes = 1 << 20
)

// Parse decodes dataset bytes. The first line is treated as a header unless
// its emission columns parse as numbers.
//
// Every physical line is decoded on its own, so broken quoting costs only the
// line it appears on. Lines with more columns than the layout or invalid CSV
// are skipped as malformed. Lines with fewer columns, or whose emission fields
// are empty or unparseable, are dropped. Neither case fails the parse.
func Parse(data []byte) ([]models.DatasetRow, models.LoadStats, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		rows  []models.DatasetRow
		stats models.LoadStats
		first = true
	)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		record, err := decodeLine(line)
		if err != nil {
			if !first {
				stats.RawRows++
				stats.Skipped++
			}
			first = false
			continue // skip malformed rows
		}

		if first {
			first = false
			if _, ok := parseEmissions(record); !ok {
				continue // header
			}
		}
		stats.RawRows++

		if len(record) > columnCount {
			stats.Skipped++
			continue
		}

		emissions, ok := parseEmissions(record)
		if !ok {
			stats.Dropped++
			continue
		}

		sub, inputsValid := parseInputs(record)
		rows = append(rows, models.DatasetRow{
			Submission:  sub,
			Emissions:   emissions,
			InputsValid: inputsValid,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, models.LoadStats{}, fmt.Errorf("failed to read dataset: %w", err)
	}

	stats.Retained = len(rows)
	return rows, stats, nil
}

// decodeLine reads exactly one CSV record from a single line
func decodeLine(line string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	record, err := reader.Read()
	if err != nil {
		return nil, err
	}
	if _, err := reader.Read(); err != io.EOF {
		return nil, errors.New("line holds more than one record")
	}
	return record, nil
}

func parseEmissions(record []string) (models.EmissionRecord, bool) {
	if len(record) < columnCount {
		return models.EmissionRecord{}, false
	}

	values := make([]float64, 4)
	for i := range values {
		v, ok := parseNumber(record[emissionColumn0+i])
		if !ok {
			return models.EmissionRecord{}, false
		}
		values[i] = v
	}
	return models.EmissionRecordFromFeatures(values), true
}

func parseInputs(record []string) (models.Submission, bool) {
	var (
		sub   models.Submission
		valid = true
	)

	fields := []*float64{&sub.DistanceKm, &sub.ElectricityKWh, nil, &sub.SpendAmount}
	for i, dst := range fields {
		v, ok := parseNumber(record[firstInputColumn+i])
		if !ok {
			valid = false
			continue
		}
		if i == meatMealsColumn {
			sub.MeatMealsPerWeek = int(math.Round(v))
			continue
		}
		*dst = v
	}
	return sub, valid
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
