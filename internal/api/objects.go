package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Plabrum/managerlab-sub002/internal/models"
)

// ListResponse is a page of objects plus the group-level actions available
// on the collection.
type ListResponse struct {
	models.Page
	Actions []models.Action `json:"actions"`
}

// DetailResponse is one object plus the instance-level actions available
// on it.
type DetailResponse struct {
	Object  models.Object   `json:"object"`
	Actions []models.Action `json:"actions"`
}

// ListObjects fetches one page of a collection. Read path: retried per the
// client's read policy.
func (c *Client) ListObjects(ctx context.Context, objectType models.ObjectType, req ListRequest) (*ListResponse, error) {
	var out ListResponse
	path := fmt.Sprintf("/v1/objects/%s%s", objectType, req.Encode())
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetObject fetches one object's detail view.
func (c *Client) GetObject(ctx context.Context, objectType models.ObjectType, id string) (*DetailResponse, error) {
	var out DetailResponse
	path := fmt.Sprintf("/v1/objects/%s/%s", objectType, url.PathEscape(id))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecuteAction dispatches an action. objectID chooses the endpoint shape:
// empty means the group-level endpoint (create and other collection-scoped
// actions), non-empty the object-level one. Mutations are never retried.
func (c *Client) ExecuteAction(ctx context.Context, group, objectID string, req models.ActionRequest) (*models.ActionResponse, error) {
	path := fmt.Sprintf("/v1/actions/%s", url.PathEscape(group))
	if objectID != "" {
		path += "/" + url.PathEscape(objectID)
	}
	var out models.ActionResponse
	if err := c.post(ctx, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
