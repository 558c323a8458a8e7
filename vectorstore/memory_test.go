package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbedder_Normalized(t *testing.T) {
	e := HashEmbedder{Dim: 64}
	v := e.Embed("Hello hello world")

	require.Len(t, v, 64)
	assert.InDelta(t, 1.0, cosine(v, v), 1e-5)
	assert.Equal(t, e.Embed("HELLO world, hello!"), v, "case and punctuation insensitive")
}

func TestHashEmbedder_EmptyText(t *testing.T) {
	v := HashEmbedder{}.Embed("  ")
	assert.Len(t, v, DefaultDimension)
	assert.Equal(t, float32(0), cosine(v, v))
}

func TestMemoryStore_SearchRanksAndFilters(t *testing.T) {
	ctx := context.Background()
	e := HashEmbedder{Dim: 128}
	m := NewMemoryStore()

	require.NoError(t, m.Upsert(ctx, []Point{
		{ID: "1", Vector: e.Embed("recipe for paella with rice"), Content: "paella", Namespace: "history", ConversationID: "c1"},
		{ID: "2", Vector: e.Embed("go concurrency with channels"), Content: "go", Namespace: "history", ConversationID: "c2"},
		{ID: "3", Vector: e.Embed("paella rice again"), Content: "other", Namespace: "elsewhere", ConversationID: "c3"},
	}))

	results, err := m.Search(ctx, e.Embed("paella rice"), SearchFilter{Namespace: "history"}, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "c1", results[0].ConversationID)
	assert.Greater(t, results[0].Score, results[1].Score)

	results, err = m.Search(ctx, e.Embed("paella rice"), SearchFilter{Namespace: "history", MinScore: 0.3}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].ConversationID)
}

func TestMemoryStore_UpsertReplacesAndLimits(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	vec := []float32{1, 0}

	require.NoError(t, m.Upsert(ctx, []Point{{ID: "a", Vector: vec, Content: "old"}}))
	require.NoError(t, m.Upsert(ctx, []Point{{ID: "a", Vector: vec, Content: "new"}, {ID: "b", Vector: vec}}))

	results, err := m.Search(ctx, vec, SearchFilter{}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "new", results[0].Content)
}

func TestMemoryStore_MetadataFilter(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	vec := []float32{0, 1}

	require.NoError(t, m.Upsert(ctx, []Point{
		{ID: "a", Vector: vec, Metadata: map[string]string{"title": "x"}},
		{ID: "b", Vector: vec, Metadata: map[string]string{"title": "y"}},
	}))

	results, err := m.Search(ctx, vec, SearchFilter{Metadata: map[string]string{"title": "y"}}, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].ID)
}
