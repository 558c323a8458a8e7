package archive

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/creastat/chatsync"
)

func exportSample() Conversation {
	return Conversation{
		ID:    "conv-1",
		Title: "hola",
		Content: []chatsync.Turn{
			chatsync.UserTurn("hola"),
			chatsync.BotTurn("<think>greet back</think>¡Hola!", true),
		},
		SavedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"md": FormatMarkdown, "markdown": FormatMarkdown,
		"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestExport_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, exportSample(), FormatMarkdown))

	out := buf.String()
	assert.Contains(t, out, "# hola\n")
	assert.Contains(t, out, "**User:** hola")
	assert.Contains(t, out, "**Bot:** ¡Hola!")
	assert.NotContains(t, out, "think")
}

func TestExport_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, exportSample(), FormatJSON))

	var doc exportConversation
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "conv-1", doc.ID)
	require.Len(t, doc.Turns, 2)
	assert.Equal(t, "¡Hola!", doc.Turns[1].Text)
	assert.Equal(t, "2025-03-01T12:00:00Z", doc.SavedAt)
}

func TestExport_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, exportSample(), FormatYAML))

	var doc exportConversation
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "hola", doc.Title)
	assert.Equal(t, "bot", doc.Turns[1].Sender)
}

func TestExport_UnknownFormat(t *testing.T) {
	assert.Error(t, Export(&bytes.Buffer{}, exportSample(), Format("pdf")))
}
