package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/residencygrid/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// Files reads extracts from local files. Description documents may be JSON
// or YAML, picked by file extension.
type Files struct {
	ProgramMaster string
	Disciplines   string
	Descriptions  string
}

var _ Source = (*Files)(nil)

// ProgramRows reads the program master CSV.
func (f *Files) ProgramRows(ctx context.Context) ([]ProgramRow, error) {
	return readCSVFile[ProgramRow](ctx, f.ProgramMaster)
}

// DisciplineRows reads the discipline CSV.
func (f *Files) DisciplineRows(ctx context.Context) ([]DisciplineRow, error) {
	return readCSVFile[DisciplineRow](ctx, f.Disciplines)
}

// Documents reads the description documents.
func (f *Files) Documents(ctx context.Context) ([]Document, error) {
	file, err := os.Open(f.Descriptions)
	if err != nil {
		return nil, fmt.Errorf("opening descriptions: %w", err)
	}
	defer file.Close()

	docs, err := DecodeDocuments(file, filepath.Ext(f.Descriptions))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f.Descriptions, err)
	}
	ctxlog.FromContext(ctx).Info("Loaded program descriptions.", "path", f.Descriptions, "count", len(docs))
	return docs, nil
}

// DecodeDocuments parses a list of documents. ext selects the format:
// ".yaml" and ".yml" are YAML, anything else is JSON.
func DecodeDocuments(r io.Reader, ext string) ([]Document, error) {
	var docs []Document
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&docs); err != nil && err != io.EOF {
			return nil, err
		}
	default:
		if err := json.NewDecoder(r).Decode(&docs); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func readCSVFile[T any](ctx context.Context, path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	rows, err := decodeCSV[T](file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Info("Loaded rows.", "path", path, "count", len(rows))
	return rows, nil
}
