package vectorstore

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultDimension is the embedding size used when none is configured.
const DefaultDimension = 256

// Embedder turns text into a vector.
type Embedder interface {
	Embed(text string) []float32
	Dimension() int
}

// HashEmbedder is a feature-hashing bag-of-words embedder. Words are
// lowercased, hashed into Dim buckets with a hash-derived sign, and the
// vector is L2-normalized. It needs no model, so archives can be searched
// offline.
type HashEmbedder struct {
	Dim int
}

// Dimension implements Embedder.
func (h HashEmbedder) Dimension() int {
	if h.Dim <= 0 {
		return DefaultDimension
	}
	return h.Dim
}

// Embed implements Embedder.
func (h HashEmbedder) Embed(text string) []float32 {
	dim := h.Dimension()
	vec := make([]float32, dim)

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		hasher := fnv.New64a()
		hasher.Write([]byte(w))
		sum := hasher.Sum64()

		bucket := sum % uint64(dim)
		if sum>>63 == 1 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
