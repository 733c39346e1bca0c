package dynamo

import (
	"runtime"
	"sync"
)

// Chunks splits [0, n) into at most workers contiguous ranges of roughly
// equal size, each at least minChunk long (except when n itself is smaller).
// workers <= 0 means runtime.NumCPU().
func Chunks(n, minChunk, workers int) [][2]int {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers
	chunks := make([][2]int, 0, workers)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		chunks = append(chunks, [2]int{start, end})
	}
	return chunks
}

// ParallelFor executes fn concurrently over the chunks of [0, n) and waits for
// all of them. fn receives the chunk index so callers can keep per-worker
// scratch buffers.
func ParallelFor(n, minChunk, workers int, fn func(chunk, start, end int)) {
	chunks := Chunks(n, minChunk, workers)
	if len(chunks) == 1 {
		fn(0, chunks[0][0], chunks[0][1])
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(chunks))

	for c, r := range chunks {
		go func(c, s, e int) {
			defer wg.Done()
			fn(c, s, e)
		}(c, r[0], r[1])
	}

	wg.Wait()
}
