// Package source reads the raw extracts the pipeline starts from: the program
// master table, the discipline table and the program description documents.
package source

import "context"

// ProgramRow is one row of the program master extract, as delivered.
type ProgramRow struct {
	DisciplineID      string `csv:"discipline_id"`
	DisciplineName    string `csv:"discipline_name"`
	SchoolID          string `csv:"school_id"`
	SchoolName        string `csv:"school_name"`
	ProgramStreamID   string `csv:"program_stream_id"`
	ProgramStreamName string `csv:"program_stream_name"`
	ProgramSite       string `csv:"program_site"`
	ProgramName       string `csv:"program_name"`
}

// DisciplineRow is one row of the discipline extract.
type DisciplineRow struct {
	DisciplineID string `csv:"discipline_id"`
	Discipline   string `csv:"discipline"`
}

// Document is one program description: markdown text keyed by a raw id of
// the form "<year>|<program>".
type Document struct {
	ID          string         `json:"id" yaml:"id"`
	PageContent string         `json:"page_content" yaml:"page_content"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// SourceURL returns the "source" metadata entry, if it is a string.
func (d Document) SourceURL() string {
	s, _ := d.Metadata["source"].(string)
	return s
}

// Source provides the raw extracts.
type Source interface {
	ProgramRows(ctx context.Context) ([]ProgramRow, error)
	DisciplineRows(ctx context.Context) ([]DisciplineRow, error)
	Documents(ctx context.Context) ([]Document, error)
}
