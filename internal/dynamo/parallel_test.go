package dynamo

import (
	"sync/atomic"
	"testing"
)

func TestChunks(t *testing.T) {
	tests := []struct {
		n, minChunk, workers int
		expected             int
	}{
		{0, 1, 4, 0},
		{10, 1, 4, 4},
		{10, 8, 4, 1},
		{100, 16, 4, 4},
		{3, 1, 8, 3},
	}

	for _, tt := range tests {
		chunks := Chunks(tt.n, tt.minChunk, tt.workers)
		if len(chunks) != tt.expected {
			t.Errorf("Chunks(%d, %d, %d) returned %d chunks, want %d", tt.n, tt.minChunk, tt.workers, len(chunks), tt.expected)
		}

		covered := 0
		next := 0
		for _, c := range chunks {
			if c[0] != next {
				t.Errorf("chunk %v does not start at %d", c, next)
			}
			covered += c[1] - c[0]
			next = c[1]
		}
		if covered != tt.n {
			t.Errorf("chunks cover %d of %d", covered, tt.n)
		}
	}
}

func TestParallelFor(t *testing.T) {
	n := 1000
	seen := make([]int32, n)
	var calls int32

	ParallelFor(n, 10, 4, func(chunk, start, end int) {
		atomic.AddInt32(&calls, 1)
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
	})

	if calls != 4 {
		t.Errorf("expected 4 chunks, got %d", calls)
	}
	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times", i, c)
		}
	}
}
