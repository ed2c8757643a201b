package inmemorystore

import (
	"context"
	"sync"

	"github.com/specialistvlad/residencygrid/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store.
//
// It uses sync.Map because each output is written once by a single worker
// while other workers read completed outputs.
type Store struct {
	outputs sync.Map // Key: asset name, Value: any (materialized value)
}

// New creates a new, empty in-memory output store.
func New() nodestore.Store {
	return &Store{}
}

// SetOutput records the successful output of an asset.
func (s *Store) SetOutput(ctx context.Context, name string, output any) error {
	s.outputs.Store(name, output)
	return nil
}

// GetOutput retrieves the recorded output of a completed asset.
func (s *Store) GetOutput(ctx context.Context, name string) (any, bool, error) {
	output, ok := s.outputs.Load(name)
	return output, ok, nil
}
