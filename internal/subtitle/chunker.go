package subtitle

// Chunk splits entries into ordered batches of at most size entries each.
// The final batch may be shorter; concatenating the batches yields the input
// unchanged. A non-positive size falls back to 1.
func Chunk(entries []Entry, size int) [][]Entry {
	if size <= 0 {
		size = 1
	}
	if len(entries) == 0 {
		return nil
	}

	batches := make([][]Entry, 0, (len(entries)+size-1)/size)
	for start := 0; start < len(entries); start += size {
		end := start + size
		if end > len(entries) {
			end = len(entries)
		}
		batches = append(batches, entries[start:end])
	}
	return batches
}
