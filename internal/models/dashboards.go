package models

import (
	"time"

	"github.com/google/uuid"
)

// WidgetType selects how a widget renders its query result.
type WidgetType string

const (
	WidgetBar  WidgetType = "bar"
	WidgetLine WidgetType = "line"
	WidgetPie  WidgetType = "pie"
	WidgetStat WidgetType = "stat"
)

// GridPos is a widget's position and size on the dashboard grid, in grid
// units. A zero W or H means the widget has no stored placement and the
// default stacking layout decides.
type GridPos struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Placed reports whether the widget carries a stored grid placement.
func (p GridPos) Placed() bool { return p.W > 0 && p.H > 0 }

// WidgetQuery specifies what a widget aggregates: which collection, which
// field, over which time range, with which aggregation and filters.
type WidgetQuery struct {
	ObjectType  ObjectType        `json:"object_type"`
	Field       string            `json:"field"`
	TimeRange   string            `json:"time_range"`
	Aggregation string            `json:"aggregation"`
	Filters     map[string]string `json:"filters,omitempty"`
}

// Widget is one tile on a dashboard.
type Widget struct {
	ID       uuid.UUID   `json:"id"`
	Type     WidgetType  `json:"type"`
	Title    string      `json:"title"`
	Pos      GridPos     `json:"pos"`
	Query    WidgetQuery `json:"query"`
	Priority int         `json:"priority"`
}

// Dashboard owns an ordered set of widgets.
type Dashboard struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	Name      string    `json:"name"`
	Widgets   []Widget  `json:"widgets"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
