package archive

import (
	"time"

	"github.com/creastat/chatsync"
)

// Conversation is a closed transcript stored in the archive.
type Conversation struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Content []chatsync.Turn `json:"content"`
	SavedAt time.Time       `json:"saved_at"`
}

// Clone returns a copy of c that shares no memory with it.
func (c Conversation) Clone() Conversation {
	out := c
	out.Content = make([]chatsync.Turn, len(c.Content))
	copy(out.Content, c.Content)
	return out
}
