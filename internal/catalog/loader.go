package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrDataUnavailable is returned when the catalog source is missing or cannot be parsed
var ErrDataUnavailable = errors.New("catalog data unavailable")

// Load reads a CSV catalog from path
func Load(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer f.Close()

	corpus, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return corpus, nil
}

// Parse reads CSV catalog rows. The header must contain id and popularity;
// any other column is optional and defaults to the empty string.
func Parse(r io.Reader) (*Corpus, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty catalog source", ErrDataUnavailable)
		}
		return nil, fmt.Errorf("%w: read header: %v", ErrDataUnavailable, err)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columns[i] = strings.TrimSpace(name)
	}

	for _, required := range []string{ColumnID, ColumnPopularity} {
		if !containsColumn(columns, required) {
			return nil, fmt.Errorf("%w: missing required column %q", ErrDataUnavailable, required)
		}
	}

	var items []Item
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
		}
		if len(record) > len(columns) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", ErrDataUnavailable, line, len(record), len(columns))
		}

		item, err := newItem(columns, record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrDataUnavailable, line, err)
		}
		items = append(items, item)
	}

	return NewCorpus(items), nil
}

func newItem(columns, record []string) (Item, error) {
	fields := make(map[string]string, len(columns)+5)
	for i, name := range columns {
		value := ""
		if i < len(record) {
			value = record[i]
		}
		fields[name] = value
	}

	for _, optional := range []string{ColumnTitle, ColumnCategory, ColumnTags, ColumnDescription, ColumnImage} {
		if _, ok := fields[optional]; !ok {
			fields[optional] = ""
		}
	}

	id := strings.TrimSpace(fields[ColumnID])
	fields[ColumnID] = id

	popularity, err := parsePopularity(fields[ColumnPopularity])
	if err != nil {
		return Item{}, err
	}

	return Item{
		ID:          id,
		Title:       fields[ColumnTitle],
		Category:    fields[ColumnCategory],
		Tags:        fields[ColumnTags],
		Description: fields[ColumnDescription],
		Image:       fields[ColumnImage],
		Popularity:  popularity,
		Fields:      fields,
	}, nil
}

// parsePopularity treats empty and NaN cells as 0
func parsePopularity(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid popularity %q", raw)
	}
	if math.IsNaN(value) {
		return 0, nil
	}
	if math.IsInf(value, 0) {
		return 0, fmt.Errorf("invalid popularity %q", raw)
	}
	return value, nil
}

func containsColumn(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}
