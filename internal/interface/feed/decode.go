package feed

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"flightlo-service/internal/domain/entity"
)

// flexFloat accepts a JSON number or a numeric string. Anything else decodes
// as invalid rather than failing the whole response.
type flexFloat struct {
	Value float64
	Valid bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	f.Value, f.Valid = v, true
	return nil
}

func coordinates(lat, lng flexFloat) *entity.Coordinates {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &entity.Coordinates{Lat: lat.Value, Lng: lng.Value}
}

// readCSV hands each of the first maxLines records to fn. Rows the reader
// cannot parse and rows fn rejects are counted as skipped.
func readCSV(body []byte, maxLines int, fn func(fields []string) bool) (skipped int) {
	r := csv.NewReader(bytes.NewReader(body))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	for lines := 0; maxLines <= 0 || lines < maxLines; lines++ {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if !fn(fields) {
			skipped++
		}
	}
	return skipped
}

// field returns fields[i] trimmed, mapping the OpenFlights null marker to "".
func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	v := strings.TrimSpace(fields[i])
	if v == `\N` {
		return ""
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
