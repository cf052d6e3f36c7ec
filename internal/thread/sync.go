package thread

import (
	"context"

	"github.com/google/uuid"

	"github.com/Plabrum/managerlab-sub002/internal/models"
)

// Sync is the composed thread view: the Connection's presence plus the
// Messages layer's list and mutations, with "typing" and "viewing" derived
// by filtering the current user out. It holds no state of its own and adds
// no failure semantics beyond its two inputs.
type Sync struct {
	conn *Connection
	msgs *Messages
	self uuid.UUID
}

// NewSync composes a connection and a message layer for the same thread.
func NewSync(conn *Connection, msgs *Messages, self uuid.UUID) *Sync {
	return &Sync{conn: conn, msgs: msgs, self: self}
}

// Connected reports the underlying socket state.
func (s *Sync) Connected() bool { return s.conn.Connected() }

// Messages returns the visible message list.
func (s *Sync) Messages() []models.Message { return s.msgs.Messages() }

// Send, Edit, Delete and Refresh pass through to the message layer.
func (s *Sync) Send(ctx context.Context, body string) error { return s.msgs.Send(ctx, body) }

func (s *Sync) Edit(ctx context.Context, id, body string) error { return s.msgs.Edit(ctx, id, body) }

func (s *Sync) Delete(ctx context.Context, id string) error { return s.msgs.Delete(ctx, id) }

func (s *Sync) Refresh(ctx context.Context) error { return s.msgs.Refresh(ctx) }

// SendTypingIndicator passes through to the connection.
func (s *Sync) SendTypingIndicator(isTyping bool) { s.conn.SendTypingIndicator(isTyping) }

// TypingUsers returns the other users currently typing.
func (s *Sync) TypingUsers() []models.Viewer {
	return s.others(true)
}

// ActiveViewers returns the other users currently viewing the thread.
func (s *Sync) ActiveViewers() []models.Viewer {
	return s.others(false)
}

func (s *Sync) others(typingOnly bool) []models.Viewer {
	var out []models.Viewer
	for _, v := range s.conn.Viewers() {
		if v.UserID == s.self {
			continue
		}
		if typingOnly && !v.IsTyping {
			continue
		}
		out = append(out, v)
	}
	return out
}
