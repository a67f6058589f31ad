package pool

// Partition splits data into at most n contiguous chunks of ceil(len/n)
// items; only the last chunk may be shorter. Concatenating the chunks in
// order gives back data. Empty data or n < 1 yields no chunks.
//
// The chunk count can be below n: 10 items over 4 workers give chunks of
// 3, 3, 3 and 1, but 9 items over 4 give 3, 3, 3.
func Partition[T any](data []T, n int) [][]T {
	if len(data) == 0 || n < 1 {
		return nil
	}

	size := (len(data) + n - 1) / n
	chunks := make([][]T, 0, (len(data)+size-1)/size)
	for start := 0; start < len(data); start += size {
		end := min(start+size, len(data))
		chunks = append(chunks, data[start:end:end])
	}
	return chunks
}
