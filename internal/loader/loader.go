// Package loader writes staged records into the warehouse.
//
// Every load operation upserts on the target table's natural key: a row that
// already exists has its mutable columns overwritten, anything else is
// inserted. Running a load twice with the same input therefore leaves the
// warehouse unchanged. All writes of one call happen in a single
// transaction.
package loader

import (
	"context"
	"fmt"

	"github.com/specialistvlad/residencygrid/internal/ctxlog"
	"github.com/specialistvlad/residencygrid/internal/linker"
	"github.com/specialistvlad/residencygrid/internal/warehouse"
)

// Description column limits, in characters.
const (
	MaxDescription          = 10000
	MaxProgramOverview      = 5000
	MaxCurriculumHighlights = 5000
)

// Counts summarizes one load call.
type Counts struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	// Skipped counts records dropped because a dimension they reference
	// could not be resolved.
	Skipped int `json:"skipped"`
	// Unmatched counts child records no program linked to.
	Unmatched int `json:"unmatched"`
	// Ambiguous counts child records that linked while more than one
	// program qualified.
	Ambiguous int `json:"ambiguous"`
}

// Loaded is the number of rows written.
func (c Counts) Loaded() int {
	return c.Inserted + c.Updated
}

func (c *Counts) upserted(inserted bool) {
	if inserted {
		c.Inserted++
	} else {
		c.Updated++
	}
}

// Loader writes to a warehouse store.
type Loader struct {
	store warehouse.Store
	// NewLinker builds the program linker for child tables and description
	// joins. Defaults to linker.NewIndex.
	NewLinker func(codes []string) linker.Linker
}

// New returns a loader writing to store.
func New(store warehouse.Store) *Loader {
	return &Loader{
		store:     store,
		NewLinker: func(codes []string) linker.Linker { return linker.NewIndex(codes) },
	}
}

// load runs fn in one transaction and logs the outcome.
func (l *Loader) load(ctx context.Context, table string, fn func(ctx context.Context, tx warehouse.Tx) (Counts, error)) (Counts, error) {
	ctx, logger := ctxlog.With(ctx, "table", table)
	var counts Counts
	err := l.store.Tx(ctx, func(ctx context.Context, tx warehouse.Tx) error {
		var err error
		counts, err = fn(ctx, tx)
		return err
	})
	if err != nil {
		return Counts{}, fmt.Errorf("load %s: %w", table, err)
	}
	logger.Info("Table loaded.",
		"inserted", counts.Inserted,
		"updated", counts.Updated,
		"skipped", counts.Skipped,
		"unmatched", counts.Unmatched,
		"ambiguous", counts.Ambiguous,
	)
	return counts, nil
}

// programLinker lists programs in id order and builds a linker over their
// codes. The returned slice is parallel to the linker's positions.
func (l *Loader) programLinker(ctx context.Context, tx warehouse.Tx) (linker.Linker, []warehouse.Program, error) {
	programs, err := tx.ListPrograms(ctx)
	if err != nil {
		return nil, nil, err
	}
	codes := make([]string, len(programs))
	for i, p := range programs {
		codes[i] = p.ProgramCode
	}
	return l.NewLinker(codes), programs, nil
}
