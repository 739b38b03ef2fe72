package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedgerMarkDeleted(t *testing.T) {
	l := NewLedger()
	assert.False(t, l.IsDeleted(7))
	assert.Equal(t, 0, l.Count())

	assert.True(t, l.MarkDeleted(7))
	assert.True(t, l.IsDeleted(7))
	assert.Equal(t, 1, l.Count())

	// Repeat deletion is allowed but not new.
	assert.False(t, l.MarkDeleted(7))
	assert.Equal(t, 1, l.Count())
}

func TestLedgerGeneration(t *testing.T) {
	l := NewLedger()
	gen := l.Generation()

	l.MarkDeleted(1)
	assert.Greater(t, l.Generation(), gen)

	gen = l.Generation()
	l.MarkDeleted(1)
	assert.Equal(t, gen, l.Generation())

	l.MarkDeleted(2)
	assert.Greater(t, l.Generation(), gen)
}

func TestLedgerConcurrentMarks(t *testing.T) {
	l := NewLedger()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := int64(0); id < 100; id++ {
				l.MarkDeleted(id)
				l.IsDeleted(id)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, l.Count())
	assert.Equal(t, uint64(100), l.Generation())
}
