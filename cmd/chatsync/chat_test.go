package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creastat/chatsync"
	"github.com/creastat/chatsync/archive"
	"github.com/creastat/chatsync/backend"
	"github.com/creastat/chatsync/internal/config"
	"github.com/creastat/chatsync/kv"
	"github.com/creastat/chatsync/session"
)

type echoGenerator struct{}

func (echoGenerator) Generate(ctx context.Context, req backend.Request, emit func(string)) error {
	emit("<think>echo</think>")
	emit("you said " + req.Prompt)
	return nil
}

func newTestController(t *testing.T) *session.Controller {
	t.Helper()
	store, err := kv.NewStore(kv.StoreTypeMemory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return session.New(archive.New(store), backend.NewStream(echoGenerator{}))
}

func TestFindConversation(t *testing.T) {
	all := []archive.Conversation{{ID: "a", Title: "first"}, {ID: "b", Title: "second"}}

	conv, err := findConversation(all, "2")
	require.NoError(t, err)
	assert.Equal(t, "second", conv.Title)

	conv, err = findConversation(all, "a")
	require.NoError(t, err)
	assert.Equal(t, "first", conv.Title)

	_, err = findConversation(all, "3")
	assert.Error(t, err)

	_, err = findConversation(all, "zzz")
	assert.ErrorIs(t, err, archive.ErrNotFound)
}

func TestRunSlash_NewHistoryLoad(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(t)
	var out bytes.Buffer

	done, err := ctrl.Submit(ctx, "hello there")
	require.NoError(t, err)
	<-done

	quit, err := runSlash(ctx, &out, ctrl, "/new")
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Empty(t, ctrl.State().CurrentChat)

	_, err = runSlash(ctx, &out, ctrl, "/history")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "hello there")

	_, err = runSlash(ctx, &out, ctrl, "/load 1")
	require.NoError(t, err)
	assert.Equal(t, []chatsync.Turn{
		chatsync.UserTurn("hello there"),
		chatsync.BotTurn("you said hello there", true),
	}, ctrl.State().CurrentChat)

	quit, err = runSlash(ctx, &out, ctrl, "/quit")
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestRunSlash_Errors(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(t)
	var out bytes.Buffer

	_, err := runSlash(ctx, &out, ctrl, "/load")
	assert.Error(t, err)

	_, err = runSlash(ctx, &out, ctrl, "/bogus")
	assert.Error(t, err)

	_, err = runSlash(ctx, &out, ctrl, "/new")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "nothing to archive")
}

func TestOpenStore(t *testing.T) {
	store, err := openStore(config.StoreConfig{Type: "memory"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = openStore(config.StoreConfig{Type: "sqlite"})
	assert.ErrorIs(t, err, kv.ErrInvalidConfig)

	_, err = openStore(config.StoreConfig{Type: "floppy"})
	assert.ErrorIs(t, err, kv.ErrInvalidStoreType)
}

func TestOpenIndex(t *testing.T) {
	index, err := openIndex(context.Background(), config.IndexConfig{Type: "none"})
	require.NoError(t, err)
	assert.Nil(t, index)

	index, err = openIndex(context.Background(), config.IndexConfig{Type: "memory"})
	require.NoError(t, err)
	assert.NotNil(t, index)

	_, err = openIndex(context.Background(), config.IndexConfig{Type: "faiss"})
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ñandú…", truncate("ñandú salvaje", 6))
}
