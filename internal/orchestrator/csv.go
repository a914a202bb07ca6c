// Package orchestrator fans out the Scenario Runner across an asset table
// with bounded concurrency and fuzzy CSV column mapping for portfolio
// uploads (spec §4.8).
package orchestrator

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/atlasrisk/engine/internal/atlaserr"
	"github.com/atlasrisk/engine/internal/models"
)

// latAliases / lonAliases / valueAliases are substring-matched, case- and
// punctuation-insensitive, against lowered header names.
var latAliases = []string{"lat", "latitude"}
var lonAliases = []string{"lon", "lng", "longitude"}
var valueAliases = []string{"val", "price", "amount", "cost", "invest", "usd"}
var cropAliases = []string{"crop", "crop_type", "croptype"}

// normalizeHeader lowercases and strips punctuation so "Asset Value (USD)"
// and "asset_value_usd" both match the same alias substrings.
func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func matchesAny(header string, aliases []string) bool {
	for _, a := range aliases {
		if strings.Contains(header, a) {
			return true
		}
	}
	return false
}

// columnMap resolves header names to column indices.
type columnMap struct {
	lat, lon, value, crop int
}

func resolveColumns(headers []string) (columnMap, error) {
	cm := columnMap{lat: -1, lon: -1, value: -1, crop: -1}
	for i, h := range headers {
		normalized := normalizeHeader(h)
		switch {
		case cm.lat == -1 && matchesAny(normalized, latAliases):
			cm.lat = i
		case cm.lon == -1 && matchesAny(normalized, lonAliases):
			cm.lon = i
		case cm.value == -1 && matchesAny(normalized, valueAliases):
			cm.value = i
		case cm.crop == -1 && matchesAny(normalized, cropAliases):
			cm.crop = i
		}
	}

	var missing []string
	if cm.lat == -1 {
		missing = append(missing, "lat")
	}
	if cm.lon == -1 {
		missing = append(missing, "lon")
	}
	if cm.value == -1 {
		missing = append(missing, "asset_value")
	}
	if len(missing) > 0 {
		return cm, atlaserr.Invalid("MISSING_COLUMNS", "batch CSV is missing required columns: "+strings.Join(missing, ", "))
	}
	return cm, nil
}

// parseNumeric accepts plain decimals and k/m/b-suffixed shorthand
// ("1.2m" -> 1,200,000).
func parseNumeric(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, atlaserr.Invalid("INVALID_NUMBER", "empty numeric field")
	}

	multiplier := 1.0
	last := s[len(s)-1]
	switch last {
	case 'k', 'K':
		multiplier = 1_000
		s = s[:len(s)-1]
	case 'm', 'M':
		multiplier = 1_000_000
		s = s[:len(s)-1]
	case 'b', 'B':
		multiplier = 1_000_000_000
		s = s[:len(s)-1]
	}

	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, atlaserr.Wrap(atlaserr.InvalidInput, "INVALID_NUMBER", err)
	}
	return v * multiplier, nil
}

// ParseCSV reads a portfolio CSV (lat, lon, asset_value, optional crop_type)
// into an asset table. Missing required columns are rejected before any row
// is read. scenario_year/temp_delta/rain_pct_change columns are not read;
// every row runs under the batch's single scenario.
func ParseCSV(r io.Reader) ([]models.Asset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, atlaserr.Wrap(atlaserr.InvalidInput, "EMPTY_CSV", err)
	}

	cm, err := resolveColumns(headers)
	if err != nil {
		return nil, err
	}

	var assets []models.Asset
	rowIndex := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, atlaserr.Wrap(atlaserr.InvalidInput, "MALFORMED_CSV_ROW", err)
		}
		rowIndex++

		lat, err := parseNumeric(record[cm.lat])
		if err != nil {
			return nil, err
		}
		lon, err := parseNumeric(record[cm.lon])
		if err != nil {
			return nil, err
		}
		value, err := parseNumeric(record[cm.value])
		if err != nil {
			return nil, err
		}

		crop := ""
		if cm.crop != -1 && cm.crop < len(record) {
			crop = record[cm.crop]
		}

		assets = append(assets, models.Asset{
			ID:          "row-" + strconv.Itoa(rowIndex),
			Geometry:    models.Geometry{Lat: lat, Lon: lon},
			ProjectKind: models.ProjectAgriculture,
			Crop:        crop,
			Exposure:    models.Exposure{AssetValueUSD: value},
		})
	}

	return assets, nil
}
