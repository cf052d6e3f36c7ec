// Package actions implements the object-action pipeline: discovering what
// an action needs from the user (confirmation, a form, nothing), executing
// it against the backend, and applying the response's side effects.
package actions

import (
	"strings"

	"github.com/Plabrum/managerlab-sub002/internal/models"
)

// Kind is the closed set of action behaviors the client knows how to
// collect data for. Action keys arrive namespaced ("roster_actions__update",
// "top_level_brands__create"); the kind is the suffix after "__". Kinds
// outside this set are legal; they just collect no data.
type Kind string

const (
	KindCreate  Kind = "create"
	KindUpdate  Kind = "update"
	KindDelete  Kind = "delete"
	KindArchive Kind = "archive"
	KindExport  Kind = "export"
)

// KindOf extracts the kind from a namespaced action key. Keys without the
// "__" separator map to the empty kind, which no entry registers.
func KindOf(actionKey string) Kind {
	if i := strings.LastIndex(actionKey, "__"); i >= 0 {
		return Kind(actionKey[i+2:])
	}
	return Kind("")
}

// FieldType tells the form renderer how to collect one value.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
	FieldSelect FieldType = "select"
)

// FormField is one input of an action form.
type FormField struct {
	Name     string
	Label    string
	Type     FieldType
	Required bool
	Options  []string
}

// FormSpec describes the data an action collects before executing.
type FormSpec struct {
	Fields []FormField
}

// DefaultsFunc derives a form's pre-filled values from the object's detail
// data. Implementations must be pure, must not mutate the object, and must
// tolerate missing fields by omitting them rather than failing.
type DefaultsFunc func(obj models.Object) map[string]any

// Entry binds a kind to its form, if any. A nil Form means the action
// executes immediately with an empty payload.
type Entry struct {
	Form     *FormSpec
	Defaults DefaultsFunc
}

// Registry resolves an action key to its data-collection entry. It is
// static: built once, read concurrently, never mutated after construction.
type Registry struct {
	entries map[Kind]Entry
}

// NewRegistry builds a registry from explicit entries.
func NewRegistry(entries map[Kind]Entry) *Registry {
	if entries == nil {
		entries = map[Kind]Entry{}
	}
	return &Registry{entries: entries}
}

// Lookup resolves an action key. ok is false for unknown kinds, which the
// executor treats as "no form".
func (r *Registry) Lookup(actionKey string) (Entry, bool) {
	e, ok := r.entries[KindOf(actionKey)]
	return e, ok
}

// NeedsForm reports whether the action key resolves to an entry with a form.
func (r *Registry) NeedsForm(actionKey string) bool {
	e, ok := r.Lookup(actionKey)
	return ok && e.Form != nil
}

// DefaultsFor computes the pre-filled values for an action key against the
// given object data. Returns nil when the action has no defaults extractor.
func (r *Registry) DefaultsFor(actionKey string, obj models.Object) map[string]any {
	e, ok := r.Lookup(actionKey)
	if !ok || e.Defaults == nil {
		return nil
	}
	return e.Defaults(obj)
}

// copyString pulls a string field out of object data, skipping absent or
// non-string values.
func copyString(obj models.Object, defaults map[string]any, field string) {
	if v, ok := obj[field].(string); ok {
		defaults[field] = v
	}
}

// DefaultRegistry returns the standard registry: create and update collect
// a form seeded from the object's current fields; delete, archive and
// export run with an empty payload (delete still confirms via the action's
// confirmation message, which is the backend's call, not the registry's).
func DefaultRegistry() *Registry {
	editForm := &FormSpec{Fields: []FormField{
		{Name: "name", Label: "Name", Type: FieldText, Required: true},
		{Name: "state", Label: "State", Type: FieldSelect},
		{Name: "description", Label: "Description", Type: FieldText},
	}}

	editDefaults := func(obj models.Object) map[string]any {
		defaults := map[string]any{}
		copyString(obj, defaults, "name")
		copyString(obj, defaults, "state")
		copyString(obj, defaults, "description")
		return defaults
	}

	return NewRegistry(map[Kind]Entry{
		KindCreate: {Form: editForm},
		KindUpdate: {Form: editForm, Defaults: editDefaults},
	})
}
