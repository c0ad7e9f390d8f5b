// Package parallel splits index ranges across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Chunks returns the [start, end) ranges that cover items when split across at most
// workers goroutines. Ranges are contiguous, ordered and never empty.
func Chunks(items, workers int) [][2]int {
	if items <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > items {
		workers = items
	}
	size := (items + workers - 1) / workers

	out := make([][2]int, 0, workers)
	for start := 0; start < items; start += size {
		end := min(start+size, items)
		out = append(out, [2]int{start, end})
	}
	return out
}

// Parallelize runs fn over the ranges returned by Chunks(items, runtime.NumCPU())
// and waits for all of them. fn must only touch indices inside its own range.
func Parallelize(items int, fn func(start, end int)) {
	chunks := Chunks(items, runtime.NumCPU())
	if len(chunks) == 1 {
		fn(chunks[0][0], chunks[0][1])
		return
	}

	var wg sync.WaitGroup
	for _, c := range chunks {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(c[0], c[1])
	}
	wg.Wait()
}

// ParallelizeWithThreshold は items が threshold 以下なら fn(0, items) を呼び出し元の
// goroutine で実行し、それを超える場合のみ Parallelize に委ねる
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
