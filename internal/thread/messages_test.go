package thread

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Plabrum/managerlab-sub002/internal/models"
)

// fakeAPI simulates the backend's message endpoints with an in-memory list.
type fakeAPI struct {
	serverMsgs []models.Message
	nextID     int

	createErr error
	editErr   error
	listErr   error

	// observed captures the visible local list at the moment CreateMessage
	// runs, to assert the optimistic entry was already rendered.
	observe  func()
	observed bool
}

func (f *fakeAPI) ListMessages(ctx context.Context, ref models.ThreadRef) ([]models.Message, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Message(nil), f.serverMsgs...), nil
}

func (f *fakeAPI) CreateMessage(ctx context.Context, ref models.ThreadRef, body string) (*models.Message, error) {
	if f.observe != nil && !f.observed {
		f.observed = true
		f.observe()
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	m := models.Message{
		ID:        fmt.Sprintf("msg-%d", f.nextID),
		Body:      body,
		CreatedAt: time.Now(),
	}
	f.serverMsgs = append(f.serverMsgs, m)
	return &m, nil
}

func (f *fakeAPI) EditMessage(ctx context.Context, messageID, body string) error {
	if f.editErr != nil {
		return f.editErr
	}
	for i := range f.serverMsgs {
		if f.serverMsgs[i].ID == messageID {
			f.serverMsgs[i].Body = body
		}
	}
	return nil
}

func (f *fakeAPI) DeleteMessage(ctx context.Context, messageID string) error {
	if f.editErr != nil {
		return f.editErr
	}
	kept := f.serverMsgs[:0]
	for _, m := range f.serverMsgs {
		if m.ID != messageID {
			kept = append(kept, m)
		}
	}
	f.serverMsgs = kept
	return nil
}

var testSelf = models.AuthorSummary{ID: uuid.New(), Email: "me@example.com", Name: "Me"}

func newTestMessages(api *fakeAPI) *Messages {
	return NewMessages(api, models.ThreadRef{Type: "roster", ID: "42"}, testSelf, nil)
}

func TestMessages_SendOptimisticRoundTrip(t *testing.T) {
	api := &fakeAPI{serverMsgs: []models.Message{msg("msg-1", "existing")}}
	api.nextID = 1
	m := newTestMessages(api)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// While the send is in flight the optimistic entry must be visible,
	// authored by the current user.
	api.observe = func() {
		visible := m.Messages()
		if len(visible) != 2 {
			t.Fatalf("expected optimistic entry during send, got %v", ids(visible))
		}
		last := visible[len(visible)-1]
		if !last.IsOptimistic() {
			t.Errorf("in-flight entry id = %q, want optimistic prefix", last.ID)
		}
		if last.Author != testSelf {
			t.Errorf("optimistic author = %+v, want self", last.Author)
		}
	}

	if err := m.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !api.observed {
		t.Fatal("observe hook never ran")
	}

	// After settle: no optimistic ids, list matches the server, no doubles.
	visible := m.Messages()
	if !equalIDs(ids(visible), []string{"msg-1", "msg-2"}) {
		t.Errorf("settled list = %v, want server list", ids(visible))
	}
	for _, vm := range visible {
		if vm.IsOptimistic() {
			t.Errorf("optimistic id %s survived the settle", vm.ID)
		}
	}
}

func TestMessages_SendFailureRollsBack(t *testing.T) {
	api := &fakeAPI{serverMsgs: []models.Message{msg("msg-1", "existing")}}
	api.createErr = errors.New("send rejected")
	m := newTestMessages(api)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	err := m.Send(context.Background(), "doomed")
	if err == nil {
		t.Fatal("expected send error")
	}

	visible := m.Messages()
	if !equalIDs(ids(visible), []string{"msg-1"}) {
		t.Errorf("list after failed send = %v, want pre-send contents", ids(visible))
	}
}

func TestMessages_SendRefetchesEvenOnFailure(t *testing.T) {
	// Another user's message landed server-side while our send failed; the
	// settle refetch must pick it up.
	api := &fakeAPI{serverMsgs: []models.Message{msg("msg-1", "existing"), msg("msg-9", "from elsewhere")}}
	api.createErr = errors.New("send rejected")
	m := newTestMessages(api)

	_ = m.Send(context.Background(), "doomed")

	if !equalIDs(ids(m.Messages()), []string{"msg-1", "msg-9"}) {
		t.Errorf("settle refetch missing: %v", ids(m.Messages()))
	}
}

func TestMessages_EditPropagatesErrors(t *testing.T) {
	api := &fakeAPI{editErr: errors.New("forbidden")}
	m := newTestMessages(api)

	if err := m.Edit(context.Background(), "msg-1", "new"); err == nil {
		t.Error("edit error must propagate")
	}
	if err := m.Delete(context.Background(), "msg-1"); err == nil {
		t.Error("delete error must propagate")
	}
}

func TestMessages_EditRefetches(t *testing.T) {
	api := &fakeAPI{serverMsgs: []models.Message{msg("msg-1", "old")}}
	m := newTestMessages(api)

	if err := m.Edit(context.Background(), "msg-1", "new"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got := m.Messages()[0].Body; got != "new" {
		t.Errorf("body after edit = %q, want new", got)
	}
}

func TestMessages_DeleteRefetches(t *testing.T) {
	api := &fakeAPI{serverMsgs: []models.Message{msg("msg-1", "a"), msg("msg-2", "b")}}
	m := newTestMessages(api)

	if err := m.Delete(context.Background(), "msg-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !equalIDs(ids(m.Messages()), []string{"msg-2"}) {
		t.Errorf("list after delete = %v", ids(m.Messages()))
	}
}
