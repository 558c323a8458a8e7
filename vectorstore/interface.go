package vectorstore

import "context"

// VectorStore is a technology-agnostic interface for vector similarity search
// over archived conversations. Implementations can use Qdrant or memory.
type VectorStore interface {
	// Upsert inserts points, replacing points with the same ID.
	Upsert(ctx context.Context, points []Point) error

	// Search performs vector similarity search with optional filtering.
	Search(ctx context.Context, vector []float32, filter SearchFilter, limit int) ([]SearchResult, error)

	// Close releases any resources held by the vector store.
	Close() error
}

// Point is one indexed conversation.
type Point struct {
	// ID is the unique identifier of the point (a UUID).
	ID string

	// Vector is the embedding of Content.
	Vector []float32

	// Content is the text the vector was computed from.
	Content string

	// Namespace partitions points, e.g. per archive key.
	Namespace string

	// ConversationID identifies the archived conversation.
	ConversationID string

	// Metadata contains additional string key-value pairs.
	Metadata map[string]string
}

// SearchFilter defines filtering options for vector search.
type SearchFilter struct {
	// Namespace restricts results to one partition.
	Namespace string

	// Metadata filters results by exact metadata matches.
	Metadata map[string]string

	// MinScore filters results below this similarity threshold (0.0-1.0).
	MinScore float32
}

// SearchResult represents a single result from vector similarity search.
type SearchResult struct {
	// ID is the unique identifier of the result.
	ID string

	// Score is the similarity score (higher is more similar).
	Score float32

	// Content is the text content associated with this vector.
	Content string

	// Namespace identifies the partition this result belongs to.
	Namespace string

	// ConversationID identifies the conversation this point belongs to.
	ConversationID string

	// Metadata contains additional key-value pairs.
	Metadata map[string]string
}
