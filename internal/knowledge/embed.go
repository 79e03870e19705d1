package knowledge

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

const defaultEmbedDim = 256

// hashEmbedder produces deterministic local embeddings by hashing
// tokens into a fixed-size bag-of-words vector, L2-normalized so dot
// product equals cosine similarity. No network, no model download;
// quality is adequate for keyword-heavy financial passages.
type hashEmbedder struct {
	dim int
}

// NewHashEmbedder returns a deterministic local embedder.
func NewHashEmbedder(dim int) Embedder {
	if dim <= 0 {
		dim = defaultEmbedDim
	}
	return &hashEmbedder{dim: dim}
}

func (e *hashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, e.dim)

	for _, token := range tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vector[h.Sum32()%uint32(e.dim)]++
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
	}

	return vector, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}
