package warehouse

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is wrapped by errors for lookups that matched no row.
	ErrNotFound = errors.New("not found")
	// ErrConflict is wrapped by errors for writes that collide with existing
	// rows or with a concurrent transaction.
	ErrConflict = errors.New("conflict")
	// ErrForeignKey is wrapped by errors for writes referencing a row that
	// does not exist.
	ErrForeignKey = errors.New("foreign key violation")
)

// Missing reports a lookup that found nothing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}

func (m Missing) Unwrap() error {
	return ErrNotFound
}

// Conflict reports a write that violates a uniqueness constraint.
type Conflict struct {
	Table    string
	Identity string
}

var _ error = Conflict{}

func (c Conflict) Error() string {
	return fmt.Sprintf("%s already exists in %s", c.Identity, c.Table)
}

func (c Conflict) Unwrap() error {
	return ErrConflict
}

// DanglingReference reports a write that refers to a missing parent row.
type DanglingReference struct {
	Table  string
	Column string
	ID     int64
}

var _ error = DanglingReference{}

func (d DanglingReference) Error() string {
	return fmt.Sprintf("%s.%s refers to missing id %d", d.Table, d.Column, d.ID)
}

func (d DanglingReference) Unwrap() error {
	return ErrForeignKey
}
