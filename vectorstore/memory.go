package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process VectorStore ranking by cosine similarity.
type MemoryStore struct {
	mu     sync.RWMutex
	points map[string]Point
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{points: make(map[string]Point)}
}

// Upsert implements VectorStore.
func (m *MemoryStore) Upsert(ctx context.Context, points []Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range points {
		m.points[p.ID] = p
	}
	return nil
}

// Search implements VectorStore.
func (m *MemoryStore) Search(ctx context.Context, vector []float32, filter SearchFilter, limit int) ([]SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]SearchResult, 0, len(m.points))
	for _, p := range m.points {
		if !matches(p, filter) {
			continue
		}
		score := cosine(vector, p.Vector)
		if filter.MinScore > 0 && score < filter.MinScore {
			continue
		}
		results = append(results, SearchResult{
			ID:             p.ID,
			Score:          score,
			Content:        p.Content,
			Namespace:      p.Namespace,
			ConversationID: p.ConversationID,
			Metadata:       p.Metadata,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Close implements VectorStore.
func (m *MemoryStore) Close() error {
	return nil
}

func matches(p Point, filter SearchFilter) bool {
	if filter.Namespace != "" && p.Namespace != filter.Namespace {
		return false
	}
	for k, v := range filter.Metadata {
		if p.Metadata[k] != v {
			return false
		}
	}
	return true
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// Compile-time check that MemoryStore implements VectorStore.
var _ VectorStore = (*MemoryStore)(nil)
