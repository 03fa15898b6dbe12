package vectorstore

// Chunk is one bounded window of a document's extracted text, carried
// with its embedding. Index is the zero-based position within the parent
// document; indexes are dense and document-local.
type Chunk struct {
	ID         string
	DocumentID string
	Content    string
	Embedding  []float32
	Index      int
	Metadata   map[string]any
}

// ScoredChunk is a search hit. Score is cosine similarity against the
// query vector; chunks without a usable embedding carry the sentinel
// score -1 so they sort last instead of poisoning the ranking with NaN.
type ScoredChunk struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"documentId"`
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Score      float64        `json:"score"`
}

// storedChunk is the raw row shape loaded for scoring; the embedding is
// still serialized
type storedChunk struct {
	id         string
	documentID string
	content    string
	metadata   map[string]any
	embedding  []byte
}
