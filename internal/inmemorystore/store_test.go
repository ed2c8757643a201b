package inmemorystore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetOutput(t *testing.T) {
	s := New()
	ctx := context.Background()

	output, ok, err := s.GetOutput(ctx, "raw_programs")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, output)

	expectedOutput := []string{"a", "b"}
	require.NoError(t, s.SetOutput(ctx, "raw_programs", expectedOutput))

	retrievedOutput, ok, err := s.GetOutput(ctx, "raw_programs")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, expectedOutput, retrievedOutput)

	// A nil output is still an output.
	require.NoError(t, s.SetOutput(ctx, "empty", nil))
	_, ok, err = s.GetOutput(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestStore_ConcurrentAccess verifies that the store can be safely accessed by
// multiple goroutines simultaneously without data races or lost writes.
func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	ctx := context.Background()
	numGoroutines := 100
	var wg sync.WaitGroup

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.SetOutput(ctx, fmt.Sprintf("asset_%d", i), i))
		}(i)
	}
	wg.Wait()

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			output, ok, err := s.GetOutput(ctx, fmt.Sprintf("asset_%d", i))
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, i, output, "mismatched output for asset %d", i)
		}(i)
	}
	wg.Wait()
}
