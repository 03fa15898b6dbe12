package chunker

// DefaultSize is the chunk window used when no size is configured.
const DefaultSize = 1000

// Split cuts text into fixed-size, non-overlapping windows of runes.
// The windows form a lossless partition: concatenating them in order
// reconstructs the input exactly. The final window may be shorter.
//
// There is no sentence or paragraph awareness and no overlap, so
// related context can land on either side of a boundary; retrieval
// quality depends on the window size chosen at ingestion time.
func Split(text string, size int) []string {
	if text == "" {
		return nil
	}

	if size <= 0 {
		size = DefaultSize
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)

	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
