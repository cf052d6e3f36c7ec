package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Plabrum/managerlab-sub002/internal/models"
)

// messageActionsGroup is the action group for edits and deletes of thread
// messages. Message creation has its own endpoint; only the follow-up
// operations ride the generic action pipeline.
const messageActionsGroup = "message_actions"

func threadPath(ref models.ThreadRef) string {
	return fmt.Sprintf("/v1/threads/%s/%s/messages",
		url.PathEscape(ref.Type), url.PathEscape(ref.ID))
}

// ListMessages fetches the authoritative message list for a thread, oldest
// first. This is the refetch every optimistic operation reconciles against.
func (c *Client) ListMessages(ctx context.Context, ref models.ThreadRef) ([]models.Message, error) {
	var out struct {
		Messages []models.Message `json:"messages"`
	}
	if err := c.get(ctx, threadPath(ref), &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// CreateMessage posts a new message to a thread and returns the confirmed
// server copy.
func (c *Client) CreateMessage(ctx context.Context, ref models.ThreadRef, body string) (*models.Message, error) {
	req := struct {
		Body string `json:"body"`
	}{Body: body}
	var out models.Message
	if err := c.post(ctx, threadPath(ref), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EditMessage rewrites a message's body through the message action group.
func (c *Client) EditMessage(ctx context.Context, messageID, body string) error {
	_, err := c.ExecuteAction(ctx, messageActionsGroup, messageID, models.ActionRequest{
		Action: "message_actions__update",
		Data:   map[string]any{"body": body},
	})
	return err
}

// DeleteMessage removes a message through the message action group.
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	_, err := c.ExecuteAction(ctx, messageActionsGroup, messageID, models.ActionRequest{
		Action: "message_actions__delete",
	})
	return err
}
