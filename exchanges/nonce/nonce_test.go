package nonce

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInc(t *testing.T) {
	t.Parallel()
	var n Nonce
	first := n.GetInc()
	second := n.GetInc()
	assert.Greater(t, second.Int64(), int64(0))
	assert.Greater(t, second.Int64(), first.Int64()-1)
	assert.NotEqual(t, first, second)
}

func TestGetIncConcurrentUniqueness(t *testing.T) {
	t.Parallel()
	var n Nonce
	const workers = 64
	results := make(chan Value, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- n.GetInc()
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[Value]bool, workers)
	for v := range results {
		assert.False(t, seen[v], "duplicate nonce %s", v)
		seen[v] = true
	}
}

func TestSetAndString(t *testing.T) {
	t.Parallel()
	var n Nonce
	n.Set(1678172693931)
	assert.Equal(t, "1678172693931", n.String())
	assert.Equal(t, int64(1678172693931), n.Get().Int64())
}
