// Package dashboards provides the client operations for dashboards and
// widgets, including the default stacking layout applied when widgets carry
// no stored grid placement.
package dashboards

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"go.uber.org/zap"

	"github.com/Plabrum/managerlab-sub002/internal/models"
	"github.com/Plabrum/managerlab-sub002/internal/query"
)

// GridWidth is the dashboard grid's column count.
const GridWidth = 12

// DefaultWidgetHeight is the stacked height for widgets without a stored
// placement.
const DefaultWidgetHeight = 4

// Client is the slice of the API client this package needs.
type Client interface {
	Get(ctx context.Context, path string, out any) error
	ExecuteAction(ctx context.Context, group, objectID string, req models.ActionRequest) (*models.ActionResponse, error)
}

// Service wraps dashboard reads with the query cache and creates dashboards
// and widgets through the action pipeline like every other mutation.
type Service struct {
	client Client
	cache  *query.Cache
	logger *zap.Logger
}

// NewService builds a dashboard service. cache may be nil to bypass caching.
func NewService(client Client, cache *query.Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, cache: cache, logger: logger}
}

// List fetches the team's dashboards.
func (s *Service) List(ctx context.Context) ([]models.Dashboard, error) {
	var out struct {
		Dashboards []models.Dashboard `json:"dashboards"`
	}
	if err := s.client.Get(ctx, "/v1/dashboards", &out); err != nil {
		return nil, err
	}
	return out.Dashboards, nil
}

// Get fetches one dashboard, serving from cache within the object staleness
// window.
func (s *Service) Get(ctx context.Context, id string) (*models.Dashboard, error) {
	key := query.DetailKey(models.ObjectDashboards, id)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if d, ok := v.(*models.Dashboard); ok {
				return d, nil
			}
		}
	}

	var out models.Dashboard
	path := fmt.Sprintf("/v1/dashboards/%s", url.PathEscape(id))
	if err := s.client.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(key, &out)
	}
	return &out, nil
}

// Create makes a new dashboard through the group-level action endpoint and
// invalidates the dashboards cache.
func (s *Service) Create(ctx context.Context, name string) (*models.ActionResponse, error) {
	resp, err := s.client.ExecuteAction(ctx, "top_level_dashboards", "", models.ActionRequest{
		Action: "top_level_dashboards__create",
		Data:   map[string]any{"name": name},
	})
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		keys := resp.InvalidateKeys
		if len(keys) == 0 {
			keys = query.ObjectKeys(models.ObjectDashboards)
		}
		s.cache.Invalidate(keys...)
	}
	return resp, nil
}

// AddWidget attaches a widget to a dashboard through the object-level
// action endpoint.
func (s *Service) AddWidget(ctx context.Context, dashboardID string, w models.Widget) (*models.ActionResponse, error) {
	resp, err := s.client.ExecuteAction(ctx, "dashboard_actions", dashboardID, models.ActionRequest{
		Action: "dashboard_actions__add_widget",
		Data: map[string]any{
			"type":  string(w.Type),
			"title": w.Title,
			"query": w.Query,
			"pos":   w.Pos,
		},
	})
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(query.DetailKey(models.ObjectDashboards, dashboardID))
	}
	return resp, nil
}

// Layout derives render positions for a dashboard's widgets. Widgets with a
// stored placement keep it; the rest stack full-width below the lowest
// placed widget, ordered by priority then id for a stable result.
func Layout(widgets []models.Widget) []models.Widget {
	out := make([]models.Widget, len(widgets))
	copy(out, widgets)

	bottom := 0
	var unplaced []int
	for i, w := range out {
		if w.Pos.Placed() {
			if edge := w.Pos.Y + w.Pos.H; edge > bottom {
				bottom = edge
			}
		} else {
			unplaced = append(unplaced, i)
		}
	}

	sort.SliceStable(unplaced, func(a, b int) bool {
		wa, wb := out[unplaced[a]], out[unplaced[b]]
		if wa.Priority != wb.Priority {
			return wa.Priority < wb.Priority
		}
		return wa.ID.String() < wb.ID.String()
	})

	y := bottom
	for _, i := range unplaced {
		out[i].Pos = models.GridPos{X: 0, Y: y, W: GridWidth, H: DefaultWidgetHeight}
		y += DefaultWidgetHeight
	}

	return out
}
