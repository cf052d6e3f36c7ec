package dashboards

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/Plabrum/managerlab-sub002/internal/models"
	"github.com/Plabrum/managerlab-sub002/internal/query"
)

type fakeClient struct {
	dashboards []models.Dashboard
	getCalls   int

	actionResp *models.ActionResponse
	actions    []models.ActionRequest
	actionIDs  []string
}

func (f *fakeClient) Get(ctx context.Context, path string, out any) error {
	f.getCalls++
	switch v := out.(type) {
	case *struct {
		Dashboards []models.Dashboard `json:"dashboards"`
	}:
		v.Dashboards = f.dashboards
	case *models.Dashboard:
		*v = f.dashboards[0]
	}
	return nil
}

func (f *fakeClient) ExecuteAction(ctx context.Context, group, objectID string, req models.ActionRequest) (*models.ActionResponse, error) {
	f.actions = append(f.actions, req)
	f.actionIDs = append(f.actionIDs, objectID)
	if f.actionResp != nil {
		return f.actionResp, nil
	}
	return &models.ActionResponse{}, nil
}

func TestService_List(t *testing.T) {
	client := &fakeClient{dashboards: []models.Dashboard{
		{ID: uuid.New(), Name: "Revenue"},
		{ID: uuid.New(), Name: "Pipeline"},
	}}
	svc := NewService(client, nil, nil)

	ds, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ds) != 2 || ds[0].Name != "Revenue" {
		t.Errorf("dashboards = %v", ds)
	}
}

func TestService_GetCaches(t *testing.T) {
	d := models.Dashboard{ID: uuid.New(), Name: "Revenue"}
	client := &fakeClient{dashboards: []models.Dashboard{d}}
	cache := query.New()
	svc := NewService(client, cache, nil)

	first, err := svc.Get(context.Background(), d.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	second, err := svc.Get(context.Background(), d.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if client.getCalls != 1 {
		t.Errorf("getCalls = %d, want 1 (second read served from cache)", client.getCalls)
	}
	if first.Name != "Revenue" || second.Name != "Revenue" {
		t.Errorf("dashboards = %v, %v", first, second)
	}
}

func TestService_CreateInvalidatesDashboards(t *testing.T) {
	client := &fakeClient{actionResp: &models.ActionResponse{InvalidateKeys: []string{"dashboards"}}}
	cache := query.New()
	cache.Set(query.DetailKey(models.ObjectDashboards, "d1"), "stale")
	cache.Set("brands:list:", "untouched")
	svc := NewService(client, cache, nil)

	if _, err := svc.Create(context.Background(), "Q3 Overview"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(client.actions) != 1 || client.actions[0].Action != "top_level_dashboards__create" {
		t.Fatalf("actions = %v", client.actions)
	}
	if client.actionIDs[0] != "" {
		t.Errorf("create must hit the group-level endpoint, got object id %q", client.actionIDs[0])
	}
	if client.actions[0].Data["name"] != "Q3 Overview" {
		t.Errorf("data = %v", client.actions[0].Data)
	}
	if _, ok := cache.Get(query.DetailKey(models.ObjectDashboards, "d1")); ok {
		t.Error("dashboard cache should be invalidated after create")
	}
	if _, ok := cache.Get("brands:list:"); !ok {
		t.Error("unrelated cache entries must survive")
	}
}

func TestService_AddWidgetTargetsDashboard(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, nil, nil)

	w := models.Widget{Type: models.WidgetBar, Title: "Invoices by state"}
	if _, err := svc.AddWidget(context.Background(), "d1", w); err != nil {
		t.Fatalf("add widget: %v", err)
	}
	if client.actionIDs[0] != "d1" {
		t.Errorf("object id = %q, want d1", client.actionIDs[0])
	}
	if client.actions[0].Action != "dashboard_actions__add_widget" {
		t.Errorf("action = %q", client.actions[0].Action)
	}
}

func widget(id byte, priority int, pos models.GridPos) models.Widget {
	u := uuid.UUID{}
	u[15] = id
	return models.Widget{ID: u, Priority: priority, Pos: pos}
}

func TestLayout_PlacedWidgetsKeepTheirPosition(t *testing.T) {
	in := []models.Widget{
		widget(1, 0, models.GridPos{X: 0, Y: 0, W: 6, H: 4}),
		widget(2, 0, models.GridPos{X: 6, Y: 0, W: 6, H: 8}),
	}
	out := Layout(in)
	if out[0].Pos != in[0].Pos || out[1].Pos != in[1].Pos {
		t.Errorf("placed widgets moved: %v", out)
	}
}

func TestLayout_UnplacedStackBelowLowestPlaced(t *testing.T) {
	in := []models.Widget{
		widget(1, 0, models.GridPos{X: 0, Y: 2, W: 6, H: 4}), // bottom edge 6
		widget(2, 5, models.GridPos{}),
		widget(3, 1, models.GridPos{}),
	}
	out := Layout(in)

	// Lower priority stacks first.
	if out[2].Pos != (models.GridPos{X: 0, Y: 6, W: GridWidth, H: DefaultWidgetHeight}) {
		t.Errorf("priority-1 widget pos = %+v", out[2].Pos)
	}
	if out[1].Pos != (models.GridPos{X: 0, Y: 10, W: GridWidth, H: DefaultWidgetHeight}) {
		t.Errorf("priority-5 widget pos = %+v", out[1].Pos)
	}
}

func TestLayout_TiesBreakByID(t *testing.T) {
	in := []models.Widget{
		widget(2, 1, models.GridPos{}),
		widget(1, 1, models.GridPos{}),
	}
	out := Layout(in)
	if out[1].Pos.Y != 0 {
		t.Errorf("lower id should stack first, got %+v", out[1].Pos)
	}
	if out[0].Pos.Y != DefaultWidgetHeight {
		t.Errorf("higher id pos = %+v", out[0].Pos)
	}
}

func TestLayout_DoesNotMutateInput(t *testing.T) {
	in := []models.Widget{widget(1, 0, models.GridPos{})}
	Layout(in)
	if in[0].Pos.Placed() {
		t.Error("Layout mutated its input")
	}
}

func TestLayout_AllUnplacedStartAtTop(t *testing.T) {
	in := []models.Widget{widget(1, 0, models.GridPos{})}
	out := Layout(in)
	if out[0].Pos != (models.GridPos{X: 0, Y: 0, W: GridWidth, H: DefaultWidgetHeight}) {
		t.Errorf("pos = %+v", out[0].Pos)
	}
}
