package actions

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Plabrum/managerlab-sub002/internal/models"
	"github.com/Plabrum/managerlab-sub002/internal/query"
)

// State is the executor's lifecycle position. One executor drives at most
// one action at a time; every path returns to StateIdle.
type State string

const (
	StateIdle       State = "idle"
	StateConfirming State = "confirming"
	StateFormOpen   State = "form_open"
	StateExecuting  State = "executing"
)

// Outcome tells the caller what Initiate or Confirm left pending.
type Outcome string

const (
	// OutcomeDone means the action executed to completion.
	OutcomeDone Outcome = "done"
	// OutcomeConfirm means the action awaits Confirm or Cancel.
	OutcomeConfirm Outcome = "confirm"
	// OutcomeForm means the action awaits ExecuteWithData or Cancel.
	OutcomeForm Outcome = "form"
)

// ErrBusy is returned when an operation arrives while another action is in
// flight or pending on the same executor.
var ErrBusy = errors.New("actions: another action is in progress")

// ErrInvalidState is returned when an operation is called from a state it
// is not valid in, e.g. ExecuteWithData before any form was opened.
var ErrInvalidState = errors.New("actions: operation not valid in current state")

// Client is the slice of the API client the executor needs.
type Client interface {
	ExecuteAction(ctx context.Context, group, objectID string, req models.ActionRequest) (*models.ActionResponse, error)
}

// Downloader fetches a file-download instruction. The CLI backs this with
// api.Client.Download.
type Downloader func(ctx context.Context, url, filename string) (string, error)

// Executor drives one action's lifecycle for one usage site: a list page
// (no object id, group-level endpoint) or a detail page (object id set,
// object-level endpoint).
type Executor struct {
	mu    sync.Mutex
	state State

	registry *Registry
	client   Client
	cache    *query.Cache
	logger   *zap.Logger

	objectID    string
	objectData  models.Object
	currentPath string

	pending models.Action

	// OnSuccess, if set, runs before cache invalidation on every
	// successful execution.
	OnSuccess func(action models.Action, resp *models.ActionResponse)
	// ExtraInvalidate, if set, extends the server-declared invalidation
	// keys for an action.
	ExtraInvalidate func(action models.Action) []string
	// Navigate, if set, receives the resolved redirect target.
	Navigate func(path string)
	// Download, if set, receives file-download instructions.
	Download Downloader
}

// Config carries an Executor's construction inputs.
type Config struct {
	Registry *Registry
	Client   Client
	Cache    *query.Cache
	Logger   *zap.Logger
	// ObjectID is empty for group-level usage sites.
	ObjectID string
	// ObjectData seeds form defaults on detail pages. May be nil.
	ObjectData models.Object
	// CurrentPath is the page the executor runs on, used to resolve ".."
	// redirects.
	CurrentPath string
}

// NewExecutor builds an idle executor.
func NewExecutor(cfg Config) *Executor {
	if cfg.Registry == nil {
		cfg.Registry = DefaultRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Executor{
		state:       StateIdle,
		registry:    cfg.Registry,
		client:      cfg.Client,
		cache:       cfg.Cache,
		logger:      cfg.Logger,
		objectID:    cfg.ObjectID,
		objectData:  cfg.ObjectData,
		currentPath: cfg.CurrentPath,
	}
}

// State returns the executor's current state.
func (e *Executor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Pending returns the action awaiting confirmation or form data, valid
// outside StateIdle.
func (e *Executor) Pending() models.Action {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// PendingForm returns the pending action's form and pre-filled defaults,
// valid in StateFormOpen.
func (e *Executor) PendingForm() (*FormSpec, map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.registry.Lookup(e.pending.Key)
	if !ok || entry.Form == nil {
		return nil, nil
	}
	return entry.Form, e.registry.DefaultsFor(e.pending.Key, e.objectData)
}

// Initiate starts an action's lifecycle. A confirmation message takes
// precedence over a form; absent both, the action executes immediately
// with an empty payload. Initiating while any action is pending or in
// flight returns ErrBusy.
func (e *Executor) Initiate(ctx context.Context, action models.Action) (Outcome, error) {
	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return "", ErrBusy
	}
	e.pending = action

	if action.NeedsConfirmation() {
		e.state = StateConfirming
		e.mu.Unlock()
		return OutcomeConfirm, nil
	}
	if e.registry.NeedsForm(action.Key) {
		e.state = StateFormOpen
		e.mu.Unlock()
		return OutcomeForm, nil
	}

	e.state = StateExecuting
	e.mu.Unlock()
	return OutcomeDone, e.execute(ctx, nil)
}

// Confirm acknowledges a pending confirmation. Form need is re-evaluated
// here: a confirmed action may still have data to collect.
func (e *Executor) Confirm(ctx context.Context) (Outcome, error) {
	e.mu.Lock()
	if e.state != StateConfirming {
		e.mu.Unlock()
		return "", ErrInvalidState
	}
	if e.registry.NeedsForm(e.pending.Key) {
		e.state = StateFormOpen
		e.mu.Unlock()
		return OutcomeForm, nil
	}
	e.state = StateExecuting
	e.mu.Unlock()
	return OutcomeDone, e.execute(ctx, nil)
}

// Cancel abandons a pending confirmation or form and discards its state.
// Cancelling an idle executor is a no-op; an executing action cannot be
// cancelled (the request runs to completion) and returns ErrInvalidState.
func (e *Executor) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case StateIdle:
		return nil
	case StateConfirming, StateFormOpen:
		e.state = StateIdle
		e.pending = models.Action{}
		return nil
	default:
		return ErrInvalidState
	}
}

// ExecuteWithData submits collected form data for the pending action.
func (e *Executor) ExecuteWithData(ctx context.Context, data map[string]any) error {
	e.mu.Lock()
	if e.state != StateFormOpen {
		e.mu.Unlock()
		return ErrInvalidState
	}
	e.state = StateExecuting
	e.mu.Unlock()
	return e.execute(ctx, data)
}

// execute dispatches the pending action and applies the response's side
// effects. Entered only from StateExecuting; always leaves the executor
// idle. Failures surface to the caller with nothing retried; the attempted
// action is simply discarded.
func (e *Executor) execute(ctx context.Context, data map[string]any) error {
	e.mu.Lock()
	action := e.pending
	objectID := e.objectID
	e.mu.Unlock()

	resp, err := e.client.ExecuteAction(ctx, action.Group, objectID, models.ActionRequest{
		Action: action.Key,
		Data:   data,
	})

	if err != nil {
		e.logger.Warn("action failed",
			zap.String("action", action.Key),
			zap.Error(err),
		)
		e.settle()
		return err
	}

	if e.OnSuccess != nil {
		e.OnSuccess(action, resp)
	}

	e.invalidate(action, resp)

	if resp.Result.IsRedirect() && e.Navigate != nil {
		e.Navigate(resolveRedirect(e.currentPath, resp.Result.Path))
	}
	if resp.Result.IsDownload() && e.Download != nil {
		if _, err := e.Download(ctx, resp.Result.URL, resp.Result.Filename); err != nil {
			e.logger.Warn("download failed",
				zap.String("action", action.Key),
				zap.Error(err),
			)
			e.settle()
			return err
		}
	}

	e.settle()
	return nil
}

func (e *Executor) settle() {
	e.mu.Lock()
	e.state = StateIdle
	e.pending = models.Action{}
	e.mu.Unlock()
}

// invalidate applies the server-declared keys plus any caller extension.
func (e *Executor) invalidate(action models.Action, resp *models.ActionResponse) {
	if e.cache == nil {
		return
	}
	keys := resp.InvalidateKeys
	if e.ExtraInvalidate != nil {
		keys = append(keys, e.ExtraInvalidate(action)...)
	}
	if len(keys) > 0 {
		e.cache.Invalidate(keys...)
	}
}

// resolveRedirect maps an action redirect path to a navigation target.
// ".." means the parent collection: the current path minus its last
// segment, so "/roster/42" resolves to "/roster".
func resolveRedirect(currentPath, target string) string {
	if target != ".." {
		return target
	}
	trimmed := strings.TrimRight(currentPath, "/")
	i := strings.LastIndex(trimmed, "/")
	if i <= 0 {
		return "/"
	}
	return trimmed[:i]
}
