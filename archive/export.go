package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/creastat/chatsync"
)

// Format is an export format for a conversation.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ParseFormat maps user input such as "markdown" or "yml" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

type exportTurn struct {
	Sender string `json:"sender" yaml:"sender"`
	Text   string `json:"text" yaml:"text"`
}

type exportConversation struct {
	ID      string       `json:"id" yaml:"id"`
	Title   string       `json:"title" yaml:"title"`
	SavedAt string       `json:"saved_at,omitempty" yaml:"saved_at,omitempty"`
	Turns   []exportTurn `json:"turns" yaml:"turns"`
}

// Export writes conv to w. Bot replies are written without reasoning markup.
func Export(w io.Writer, conv Conversation, format Format) error {
	doc := toExport(conv)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()

	case FormatMarkdown:
		return writeMarkdown(w, doc)

	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func toExport(conv Conversation) exportConversation {
	doc := exportConversation{
		ID:    conv.ID,
		Title: conv.Title,
		Turns: make([]exportTurn, 0, len(conv.Content)),
	}
	if !conv.SavedAt.IsZero() {
		doc.SavedAt = conv.SavedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	for _, t := range conv.Content {
		text := t.Text
		if t.Sender == chatsync.SenderBot {
			text = chatsync.Sanitize(text)
		}
		doc.Turns = append(doc.Turns, exportTurn{Sender: string(t.Sender), Text: text})
	}
	return doc
}

func writeMarkdown(w io.Writer, doc exportConversation) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	if doc.SavedAt != "" {
		fmt.Fprintf(&b, "_Saved %s_\n\n", doc.SavedAt)
	}
	for _, t := range doc.Turns {
		label := "User"
		if t.Sender == string(chatsync.SenderBot) {
			label = "Bot"
		}
		fmt.Fprintf(&b, "**%s:** %s\n\n", label, t.Text)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
