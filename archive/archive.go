// Package archive persists closed conversations as one JSON array stored
// under a single key of a kv.Store.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/creastat/chatsync"
	"github.com/creastat/chatsync/internal/logger"
	"github.com/creastat/chatsync/kv"
)

// DefaultKey is the store key holding the archive.
const DefaultKey = "history"

// Archive maps conversation ids to saved transcripts.
// Every append rewrites the whole blob; there are no partial updates.
type Archive struct {
	store kv.Store
	key   string
	index *Index
	newID func() string
	now   func() time.Time
}

// Option configures an Archive.
type Option func(*Archive)

// WithKey stores the archive under key instead of DefaultKey.
func WithKey(key string) Option {
	return func(a *Archive) {
		a.key = key
	}
}

// WithIndex indexes every appended conversation for Search.
func WithIndex(index *Index) Option {
	return func(a *Archive) {
		a.index = index
	}
}

// New returns an Archive persisted in store.
func New(store kv.Store, opts ...Option) *Archive {
	a := &Archive{
		store: store,
		key:   DefaultKey,
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the store key the archive lives under.
func (a *Archive) Key() string {
	return a.key
}

// Append archives turns as a new conversation titled after the first turn.
// An empty transcript is not archived: Append returns nil, nil.
// A corrupt archive is not overwritten; the *CorruptError is returned.
func (a *Archive) Append(ctx context.Context, turns []chatsync.Turn) (*Conversation, error) {
	if len(turns) == 0 {
		return nil, nil
	}

	conv := Conversation{
		ID:      a.newID(),
		Title:   turns[0].Text,
		Content: settled(turns),
		SavedAt: a.now().UTC(),
	}

	err := kv.Update(ctx, a.store, a.key, func(current string, ok bool) (string, error) {
		all, err := a.decode(current, ok)
		if err != nil {
			return "", err
		}
		all = append(all, conv)

		b, err := json.Marshal(all)
		if err != nil {
			return "", fmt.Errorf("encode archive: %w", err)
		}
		return string(b), nil
	})
	if err != nil {
		return nil, fmt.Errorf("append to archive: %w", err)
	}

	logger.Info("conversation archived", "id", conv.ID, "turns", len(conv.Content))

	if a.index != nil {
		if err := a.index.Add(ctx, conv); err != nil {
			logger.Warn("failed to index conversation", "id", conv.ID, "error", err)
		}
	}

	return &conv, nil
}

// LoadAll returns every archived conversation in archive order.
// An absent key is an empty archive. A corrupt blob yields an empty slice
// together with a *CorruptError so callers can keep running.
func (a *Archive) LoadAll(ctx context.Context) ([]Conversation, error) {
	current, ok, err := a.store.Get(ctx, a.key)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	all, err := a.decode(current, ok)
	if err != nil {
		logger.Warn("archive could not be decoded", "key", a.key, "error", err)
		return []Conversation{}, err
	}
	return all, nil
}

// Get returns the conversation with the given id.
func (a *Archive) Get(ctx context.Context, id string) (*Conversation, error) {
	all, err := a.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Search returns archived conversations ranked by similarity to query.
// It returns ErrNoIndex when the archive was built without WithIndex.
func (a *Archive) Search(ctx context.Context, query string, limit int) ([]Conversation, error) {
	if a.index == nil {
		return nil, ErrNoIndex
	}

	ids, err := a.index.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Conversation{}, nil
	}

	all, err := a.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Conversation, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}

	out := make([]Conversation, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Reindex adds every archived conversation to the index. Point ids are
// derived from conversation ids, so running it twice is harmless.
func (a *Archive) Reindex(ctx context.Context) error {
	if a.index == nil {
		return ErrNoIndex
	}
	all, err := a.LoadAll(ctx)
	if err != nil {
		return err
	}
	for _, c := range all {
		if err := a.index.Add(ctx, c); err != nil {
			return err
		}
	}
	logger.Debug("archive reindexed", "conversations", len(all))
	return nil
}

// decode parses the stored blob. An empty value reads as an empty archive.
// Archived turns are closed, so every decoded turn is marked settled.
func (a *Archive) decode(blob string, ok bool) ([]Conversation, error) {
	if !ok || blob == "" {
		return []Conversation{}, nil
	}

	var all []Conversation
	if err := json.Unmarshal([]byte(blob), &all); err != nil {
		return nil, &CorruptError{Key: a.key, Err: err}
	}
	if all == nil {
		all = []Conversation{}
	}
	for i := range all {
		all[i].Content = settled(all[i].Content)
	}
	return all, nil
}

func settled(turns []chatsync.Turn) []chatsync.Turn {
	out := make([]chatsync.Turn, len(turns))
	for i, t := range turns {
		t.Settled = true
		out[i] = t
	}
	return out
}
