package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkPreservesOrder(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	batches := Chunk(items, 2)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, batches)
}

func TestChunkEmptyAndInvalidSize(t *testing.T) {
	assert.Nil(t, Chunk([]string(nil), 5))
	assert.Nil(t, Chunk([]string{"a"}, 0))
}

func TestBatchBufferConcurrentAdds(t *testing.T) {
	buffer := NewBatchBuffer[int]()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buffer.Add(j)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, buffer.Size())
	assert.Len(t, buffer.GetAndClear(), 800)
	assert.Equal(t, 0, buffer.Size())
}
