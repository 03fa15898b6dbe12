package vectorstore

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"scaled", []float32{2, 0}, []float32{5, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineSimilarity = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarityZeroNorm(t *testing.T) {
	if got := cosineSimilarity([]float32{0, 0}, []float32{1, 0}); got != missingEmbeddingScore {
		t.Errorf("zero-norm vector must score the sentinel, got %f", got)
	}
}

func TestEncodeDecodeVector(t *testing.T) {
	vec := []float32{0.25, -1.5, 3.14159, 0, 1e-8}

	decoded, err := decodeVector(encodeVector(vec))
	if err != nil {
		t.Fatalf("decodeVector failed: %v", err)
	}

	if len(decoded) != len(vec) {
		t.Fatalf("expected %d values, got %d", len(vec), len(decoded))
	}

	for i := range vec {
		if decoded[i] != vec[i] {
			t.Errorf("value %d: expected %f, got %f", i, vec[i], decoded[i])
		}
	}
}

func TestDecodeVectorRejectsBadLength(t *testing.T) {
	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated blob")
	}
}

func TestScoreAndRankOrdersByScore(t *testing.T) {
	query := []float32{1, 0}

	rows := []storedChunk{
		{id: "far", embedding: encodeVector([]float32{0, 1})},
		{id: "near", embedding: encodeVector([]float32{1, 0.01})},
		{id: "mid", embedding: encodeVector([]float32{1, 1})},
	}

	results := scoreAndRank(query, rows, 0)

	want := []string{"near", "mid", "far"}
	for i, id := range want {
		if results[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, results[i].ID)
		}
	}
}

func TestScoreAndRankTruncatesToLimit(t *testing.T) {
	query := []float32{1, 0}

	rows := make([]storedChunk, 10)
	for i := range rows {
		rows[i] = storedChunk{embedding: encodeVector([]float32{1, float32(i)})}
	}

	if got := len(scoreAndRank(query, rows, 3)); got != 3 {
		t.Errorf("expected 3 results, got %d", got)
	}
}

func TestScoreAndRankEmptyCorpus(t *testing.T) {
	results := scoreAndRank([]float32{1, 0}, nil, 5)

	if len(results) != 0 {
		t.Errorf("expected empty result for empty corpus, got %d", len(results))
	}
}

func TestMissingEmbeddingScoresSentinel(t *testing.T) {
	query := []float32{0.6, 0.8} // normalized

	rows := []storedChunk{
		{id: "missing", embedding: nil},
		{id: "malformed", embedding: []byte{1, 2, 3}},
		{id: "wrong-dim", embedding: encodeVector([]float32{1, 2, 3})},
		{id: "real-negative", embedding: encodeVector([]float32{-0.6, -0.8})},
	}

	results := scoreAndRank(query, rows, 0)

	byID := make(map[string]float64, len(results))
	for _, r := range results {
		byID[r.ID] = r.Score
	}

	for _, id := range []string{"missing", "malformed", "wrong-dim"} {
		if byID[id] != -1 {
			t.Errorf("%s: expected score -1, got %f", id, byID[id])
		}
	}

	// an anti-aligned real embedding also scores -1; the sentinel only
	// guarantees missing embeddings never OUTRANK real ones
	if results[0].ID != "real-negative" && byID[results[0].ID] != -1 {
		t.Errorf("unexpected top result %s", results[0].ID)
	}

	for _, r := range results {
		if math.IsNaN(r.Score) {
			t.Errorf("%s: score must never be NaN", r.ID)
		}
	}
}

func TestMissingEmbeddingNeverOutranksReal(t *testing.T) {
	query := []float32{0.6, 0.8}

	rows := []storedChunk{
		{id: "missing"},
		{id: "weak", embedding: encodeVector([]float32{-0.5, 0.86})},
	}

	results := scoreAndRank(query, rows, 0)

	if results[0].ID != "weak" {
		t.Errorf("real embedding must outrank missing one, got %s first", results[0].ID)
	}
}
