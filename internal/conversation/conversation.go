// Package conversation holds per-conversation chat state: ordered turns keyed
// by an opaque conversation id, kept in memory for the lifetime of the process.
package conversation

import "time"

// Role tags a turn with its author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Turn is one stored message within a conversation.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Message is the reduced wire form of a turn: what the model sees.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is the ordered history for one conversation id.
// Turns is append-only; existing entries are never edited or removed.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Turns     []Turn    `json:"turns"`
}

// Append adds a turn stamped with the current time and returns it.
// Mutation is only safe while holding the conversation via Store.With.
func (c *Conversation) Append(role Role, content string) Turn {
	t := Turn{Role: role, Content: content, Timestamp: time.Now().UTC()}
	c.Turns = append(c.Turns, t)
	return t
}

// Window returns the last n turns reduced to messages, oldest first.
// Fewer than n turns means all of them.
func (c *Conversation) Window(n int) []Message {
	turns := c.Turns
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	msgs := make([]Message, len(turns))
	for i, t := range turns {
		msgs[i] = Message{Role: t.Role, Content: t.Content}
	}
	return msgs
}
