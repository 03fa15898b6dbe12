package vectorstore

import (
	"math"
	"sort"
)

// sentinel for chunks whose embedding is missing, malformed, of the
// wrong dimensionality, or zero-norm; guarantees they rank below any
// chunk with a real similarity (cosine is bounded by [-1, 1] but never
// reaches -1 for the normalized query vectors embedders produce)
const missingEmbeddingScore = -1

// scores every row against the query vector, sorts descending, and
// truncates to limit. Pure function, so ranking behavior is testable
// without a database.
func scoreAndRank(query []float32, rows []storedChunk, limit int) []ScoredChunk {
	results := make([]ScoredChunk, 0, len(rows))

	for _, row := range rows {
		results = append(results, ScoredChunk{
			ID:         row.id,
			DocumentID: row.documentID,
			Content:    row.content,
			Metadata:   row.metadata,
			Score:      scoreChunk(query, row.embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results
}

func scoreChunk(query []float32, embedding []byte) float64 {
	if len(embedding) == 0 {
		return missingEmbeddingScore
	}

	vec, err := decodeVector(embedding)
	if err != nil || len(vec) != len(query) {
		return missingEmbeddingScore
	}

	return cosineSimilarity(query, vec)
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64

	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return missingEmbeddingScore
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
