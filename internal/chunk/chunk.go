// Package chunk splits listings into bounded batches so each model request
// stays a predictable size.
package chunk

import "fmt"

// DefaultSize is the number of names sent to the model per request.
const DefaultSize = 40

// Chunk splits items into contiguous slices of at most size elements,
// preserving order. The last slice may be shorter. An empty input yields no
// slices. The returned slices alias items.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		panic(fmt.Sprintf("chunk: size must be positive, got %d", size))
	}
	if len(items) == 0 {
		return nil
	}

	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end:end])
	}
	return out
}
