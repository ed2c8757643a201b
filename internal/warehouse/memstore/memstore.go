// Package memstore is an in-process warehouse.Store. Each transaction works
// on a private copy of the tables and replaces the shared state only when it
// commits, so a failed transaction leaves nothing behind.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/specialistvlad/residencygrid/internal/warehouse"
)

// table holds rows keyed by surrogate id.
type table[T any] struct {
	rows map[int64]T
	next int64
}

func newTable[T any]() table[T] {
	return table[T]{rows: make(map[int64]T), next: 1}
}

func (t table[T]) clone() table[T] {
	rows := make(map[int64]T, len(t.rows))
	for k, v := range t.rows {
		rows[k] = v
	}
	return table[T]{rows: rows, next: t.next}
}

func (t *table[T]) insert(row T) int64 {
	id := t.next
	t.next++
	t.rows[id] = row
	return id
}

// sorted returns rows in id order.
func (t table[T]) sorted() []T {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, len(ids))
	for i, id := range ids {
		out[i] = t.rows[id]
	}
	return out
}

// find returns the row matching a natural key. Keys are unique, so map
// order does not matter.
func (t table[T]) find(match func(T) bool) (T, bool) {
	for _, row := range t.rows {
		if match(row) {
			return row, true
		}
	}
	var zero T
	return zero, false
}

type state struct {
	universities table[warehouse.University]
	specialties  table[warehouse.Specialty]
	programs     table[warehouse.Program]
	requirements table[warehouse.Requirement]
	criteria     table[warehouse.SelectionCriterion]
	sites        table[warehouse.TrainingSite]
}

func newState() state {
	return state{
		universities: newTable[warehouse.University](),
		specialties:  newTable[warehouse.Specialty](),
		programs:     newTable[warehouse.Program](),
		requirements: newTable[warehouse.Requirement](),
		criteria:     newTable[warehouse.SelectionCriterion](),
		sites:        newTable[warehouse.TrainingSite](),
	}
}

func (s state) clone() state {
	return state{
		universities: s.universities.clone(),
		specialties:  s.specialties.clone(),
		programs:     s.programs.clone(),
		requirements: s.requirements.clone(),
		criteria:     s.criteria.clone(),
		sites:        s.sites.clone(),
	}
}

// Store is the in-memory warehouse.
type Store struct {
	mu     sync.Mutex
	state  state
	closed bool
}

var _ warehouse.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{state: newState()}
}

// Tx runs fn against a copy of the tables. Transactions are serialized.
func (s *Store) Tx(ctx context.Context, fn func(ctx context.Context, tx warehouse.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("memstore: store is closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &transaction{state: s.state.clone()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

// Close marks the store closed. Later transactions fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
