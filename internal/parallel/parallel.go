// Package parallel provides chunked data-parallel execution helpers used by
// commitment computation and witness decomposition.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MinChunkSize is the smallest number of entries worth dispatching to a worker.
const MinChunkSize = 4096

// ChunkRange is a container for the beginning and the end of a chunk
type ChunkRange struct {
	Begin, End int
}

// IntoChunkRanges returns a list of range of chunks computed for n entries.
// Try to do chunks as big as possible with MinChunkSize as a minimum.
func IntoChunkRanges(nCore, n int) []ChunkRange {
	chunkSize := max(MinChunkSize, n/nCore)
	nChunks := n / chunkSize
	if nChunks*chunkSize < n {
		nChunks++
	}

	chunkRanges := make([]ChunkRange, nChunks)
	begin := 0
	for i := 0; i < nChunks; i++ {
		chunkRanges[i] = ChunkRange{Begin: begin, End: min(n, begin+chunkSize)}
		begin += chunkSize
	}

	return chunkRanges
}

// Execute runs work(begin, end) over [0, n) split into chunks, one goroutine
// per chunk, and blocks until all chunks are done.
func Execute(n int, work func(begin, end int)) {
	chunks := IntoChunkRanges(runtime.NumCPU(), n)
	if len(chunks) <= 1 {
		if n > 0 {
			work(0, n)
		}
		return
	}
	var g errgroup.Group
	for _, c := range chunks {
		g.Go(func() error {
			work(c.Begin, c.End)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors
}

// ExecuteErr is Execute for workers that can fail; the first error wins.
func ExecuteErr(n int, work func(begin, end int) error) error {
	chunks := IntoChunkRanges(runtime.NumCPU(), n)
	if len(chunks) <= 1 {
		if n == 0 {
			return nil
		}
		return work(0, n)
	}
	var g errgroup.Group
	for _, c := range chunks {
		g.Go(func() error {
			return work(c.Begin, c.End)
		})
	}
	return g.Wait()
}

// Log2Floor computes the floored value of Log2
func Log2Floor(a int) int {
	res := 0
	for i := a; i > 1; i = i >> 1 {
		res++
	}
	return res
}

// Log2Ceil computes the ceiled value of Log2
func Log2Ceil(a int) int {
	floor := Log2Floor(a)
	if a != 1<<floor {
		floor++
	}
	return floor
}
