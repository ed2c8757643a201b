package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// MissingColumnError is returned when a CSV header lacks a required column.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// decodeCSV reads a headered CSV into a slice of T. Every string field of T
// tagged `csv:"name"` is filled from the column with that header. Columns
// are matched case-insensitively and may appear in any order; extra columns
// are ignored.
func decodeCSV[T any](r io.Reader) ([]T, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		index[h] = i
	}

	var zero T
	typ := reflect.TypeOf(zero)
	columns := make([]int, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		name := typ.Field(i).Tag.Get("csv")
		if name == "" {
			columns[i] = -1
			continue
		}
		col, ok := index[name]
		if !ok {
			return nil, &MissingColumnError{Column: name}
		}
		columns[i] = col
	}

	var out []T
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}
		if blank(record) {
			continue
		}
		var row T
		v := reflect.ValueOf(&row).Elem()
		for i, col := range columns {
			if col >= 0 && col < len(record) {
				v.Field(i).SetString(strings.TrimSpace(record[col]))
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
