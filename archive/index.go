package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/creastat/chatsync"
	"github.com/creastat/chatsync/vectorstore"
)

// Index makes archived conversations searchable by similarity.
type Index struct {
	store     vectorstore.VectorStore
	embedder  vectorstore.Embedder
	namespace string
}

// NewIndex returns an Index writing points into store under namespace.
func NewIndex(store vectorstore.VectorStore, embedder vectorstore.Embedder, namespace string) *Index {
	return &Index{
		store:     store,
		embedder:  embedder,
		namespace: namespace,
	}
}

// Add indexes the title and text of conv.
func (i *Index) Add(ctx context.Context, conv Conversation) error {
	text := indexText(conv)
	point := vectorstore.Point{
		ID:             pointID(i.namespace, conv.ID),
		Vector:         i.embedder.Embed(text),
		Content:        conv.Title,
		Namespace:      i.namespace,
		ConversationID: conv.ID,
	}
	if err := i.store.Upsert(ctx, []vectorstore.Point{point}); err != nil {
		return fmt.Errorf("index conversation %s: %w", conv.ID, err)
	}
	return nil
}

// Search returns the ids of the best matching conversations, best first.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	results, err := i.store.Search(ctx, i.embedder.Embed(query), vectorstore.SearchFilter{
		Namespace: i.namespace,
		MinScore:  0.01,
	}, limit)
	if err != nil {
		return nil, fmt.Errorf("search archive: %w", err)
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ConversationID)
	}
	return ids, nil
}

// pointID derives a stable point UUID so re-indexing replaces the point.
func pointID(namespace, conversationID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(namespace+"/"+conversationID)).String()
}

func indexText(conv Conversation) string {
	var b strings.Builder
	b.WriteString(conv.Title)
	for _, t := range conv.Content {
		b.WriteByte('\n')
		if t.Sender == chatsync.SenderBot {
			b.WriteString(chatsync.Sanitize(t.Text))
		} else {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}
