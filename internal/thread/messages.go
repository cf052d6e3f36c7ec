package thread

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Plabrum/managerlab-sub002/internal/models"
)

// Client is the slice of the API client the message layer needs.
type Client interface {
	ListMessages(ctx context.Context, ref models.ThreadRef) ([]models.Message, error)
	CreateMessage(ctx context.Context, ref models.ThreadRef, body string) (*models.Message, error)
	EditMessage(ctx context.Context, messageID, body string) error
	DeleteMessage(ctx context.Context, messageID string) error
}

// Messages layers optimistic-send semantics over the thread's REST message
// endpoints. Optimistic data is never trusted as final: every send settles
// with an authoritative refetch, success or not.
type Messages struct {
	client Client
	ref    models.ThreadRef
	self   models.AuthorSummary
	store  *MessageStore
	logger *zap.Logger
	now    func() time.Time
}

// NewMessages builds the message layer for one thread. self is the current
// user, used to author optimistic placeholders.
func NewMessages(client Client, ref models.ThreadRef, self models.AuthorSummary, logger *zap.Logger) *Messages {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Messages{
		client: client,
		ref:    ref,
		self:   self,
		store:  NewMessageStore(),
		logger: logger,
		now:    time.Now,
	}
}

// Messages returns the currently visible list, optimistic entries included.
func (m *Messages) Messages() []models.Message {
	return m.store.Messages()
}

// Refresh replaces the visible list with the server's.
func (m *Messages) Refresh(ctx context.Context) error {
	msgs, err := m.client.ListMessages(ctx, m.ref)
	if err != nil {
		return err
	}
	m.store.Replace(msgs)
	return nil
}

// Send posts a message. The message appears immediately under a synthetic
// optimistic id; a failed send rolls the list back to its pre-send
// contents, and either way the list is refetched to reconcile with the
// server.
func (m *Messages) Send(ctx context.Context, body string) error {
	now := m.now()
	optimistic := models.Message{
		ID:        models.OptimisticIDPrefix + uuid.NewString(),
		Thread:    m.ref,
		AuthorID:  m.self.ID,
		Author:    m.self,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	sp := m.store.Speculate(optimistic)

	_, sendErr := m.client.CreateMessage(ctx, m.ref, body)
	if sendErr != nil {
		sp.Revert()
	} else {
		sp.Commit()
	}

	if err := m.Refresh(ctx); err != nil {
		m.logger.Warn("message refetch failed", zap.Error(err))
	}

	return sendErr
}

// Edit rewrites a message and refetches. Errors propagate to the caller.
func (m *Messages) Edit(ctx context.Context, messageID, body string) error {
	if err := m.client.EditMessage(ctx, messageID, body); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// Delete removes a message and refetches. Errors propagate to the caller.
func (m *Messages) Delete(ctx context.Context, messageID string) error {
	if err := m.client.DeleteMessage(ctx, messageID); err != nil {
		return err
	}
	return m.Refresh(ctx)
}
