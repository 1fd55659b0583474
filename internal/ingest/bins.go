// Package ingest parses uploaded bin inventory files.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/binsight/footfall-backend-go/internal/footfall"
	"github.com/binsight/footfall-backend-go/internal/models"
)

// ImportResult reports what a CSV import produced.
type ImportResult struct {
	Bins    []models.BinLocation
	Skipped int // rows dropped for missing or unparseable coordinates
}

// Column aliases accepted in the CSV header, lower-cased.
var (
	latAliases  = []string{"lat", "latitude", "y"}
	lonAliases  = []string{"lon", "longitude", "lng", "x"}
	idAliases   = []string{"bin_id", "id", "asset_id", "reference"}
	typeAliases = []string{"bin_type", "type", "category"}
	capAliases  = []string{"capacity_liters", "capacity", "capacity_l", "volume"}
	wardAliases = []string{"ward", "ward_name", "administrative_area", "borough"}
)

// ReadBinsCSV parses a bin inventory CSV. The header is matched tolerantly:
// latitude and longitude columns are required (several common spellings are
// accepted), everything else is optional. Rows with missing or unparseable
// coordinates are skipped and counted, not fatal. Bins without an ID column
// get generated ones.
func ReadBinsCSV(r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading CSV header: %v", footfall.ErrData, err)
	}

	latCol := findColumn(header, latAliases)
	lonCol := findColumn(header, lonAliases)
	if latCol < 0 || lonCol < 0 {
		return nil, fmt.Errorf("%w: CSV header has no recognizable latitude/longitude columns", footfall.ErrData)
	}
	idCol := findColumn(header, idAliases)
	typeCol := findColumn(header, typeAliases)
	capCol := findColumn(header, capAliases)
	wardCol := findColumn(header, wardAliases)

	result := &ImportResult{}
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row, skip it.
			result.Skipped++
			continue
		}
		row++

		lat, latErr := parseField(record, latCol)
		lon, lonErr := parseField(record, lonCol)
		if latErr != nil || lonErr != nil {
			result.Skipped++
			continue
		}

		bin := models.BinLocation{Lat: lat, Lon: lon}
		if idCol >= 0 && idCol < len(record) && strings.TrimSpace(record[idCol]) != "" {
			bin.BinID = strings.TrimSpace(record[idCol])
		} else {
			bin.BinID = fmt.Sprintf("BIN%05d", row)
		}
		if typeCol >= 0 && typeCol < len(record) {
			bin.BinType = strings.TrimSpace(record[typeCol])
		}
		if wardCol >= 0 && wardCol < len(record) {
			bin.Ward = strings.TrimSpace(record[wardCol])
		}
		if capCol >= 0 && capCol < len(record) {
			if c, err := strconv.Atoi(strings.TrimSpace(record[capCol])); err == nil && c > 0 {
				bin.CapacityLiters = c
			}
		}
		result.Bins = append(result.Bins, bin)
	}

	if len(result.Bins) == 0 {
		return nil, fmt.Errorf("%w: CSV contained no usable bin rows", footfall.ErrData)
	}
	return result, nil
}

func findColumn(header []string, aliases []string) int {
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		for _, a := range aliases {
			if name == a {
				return i
			}
		}
	}
	return -1
}

func parseField(record []string, col int) (float64, error) {
	if col >= len(record) {
		return 0, fmt.Errorf("column out of range")
	}
	return strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
}
