package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// OptimisticIDPrefix marks a message inserted locally before the server has
// confirmed it. Optimistic messages render exactly like confirmed ones and
// are replaced wholesale by the next refetch.
const OptimisticIDPrefix = "optimistic-"

// ThreadRef addresses a comment thread. Threads are not fetched as entities;
// the pair is the WebSocket channel address and the message-list query scope.
type ThreadRef struct {
	Type string `json:"threadable_type"`
	ID   string `json:"threadable_id"`
}

// AuthorSummary is the denormalized author block embedded in each message so
// the thread view renders without a user lookup.
type AuthorSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// Message is a single entry in a thread. ID is a string so an optimistic
// placeholder id can stand in until the server assigns a real one.
type Message struct {
	ID        string        `json:"id"`
	Thread    ThreadRef     `json:"thread"`
	AuthorID  uuid.UUID     `json:"author_id"`
	Author    AuthorSummary `json:"author"`
	Body      string        `json:"body"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// IsOptimistic reports whether the message is a local placeholder awaiting
// server confirmation.
func (m Message) IsOptimistic() bool {
	return strings.HasPrefix(m.ID, OptimisticIDPrefix)
}

// Viewer is one user's presence in a thread as pushed by the server. The
// client keeps only the latest snapshot per connection; there is no
// client-side merging.
type Viewer struct {
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	IsTyping bool      `json:"is_typing"`
}

// WebSocket message kinds, client to server.
const (
	WSMarkRead = "mark_read"
	WSPing     = "ping"
	WSTyping   = "typing"
)

// WebSocket message kinds, server to client.
const (
	WSUserJoined     = "user_joined"
	WSTypingUpdate   = "typing_update"
	WSNewMessage     = "new_message"
	WSMessageUpdated = "message_updated"
	WSMessageDeleted = "message_deleted"
	WSPong           = "pong"
)

// ThreadEvent is the JSON envelope for every thread WebSocket message, in
// both directions. Type discriminates; the other fields are populated per
// kind and zero otherwise.
type ThreadEvent struct {
	Type      string   `json:"type"`
	Viewers   []Viewer `json:"viewers,omitempty"`
	Message   *Message `json:"message,omitempty"`
	MessageID string   `json:"message_id,omitempty"`
	IsTyping  bool     `json:"is_typing,omitempty"`
}
