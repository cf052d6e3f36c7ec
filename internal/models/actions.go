package models

// Action is a named, permission-gated operation the backend exposes for an
// object type (group-level, e.g. create) or a single object (instance-level,
// e.g. update, delete). Actions arrive alongside list/detail responses and
// are read-only to the client.
type Action struct {
	Key          string `json:"key"`
	Label        string `json:"label"`
	Group        string `json:"group"`
	Available    bool   `json:"available"`
	Priority     int    `json:"priority"`
	Confirmation string `json:"confirmation,omitempty"`
	BulkAllowed  bool   `json:"bulk_allowed"`
}

// NeedsConfirmation reports whether the action declares a confirmation
// message the user must acknowledge before execution.
func (a Action) NeedsConfirmation() bool {
	return a.Confirmation != ""
}

// ActionRequest is the body sent to an action endpoint: the action key plus
// the collected form data, if any. The target object id, when present, lives
// in the URL rather than the body.
type ActionRequest struct {
	Action string         `json:"action"`
	Data   map[string]any `json:"data,omitempty"`
}

// ActionResult is the optional instruction carried by a successful action
// response. Exactly one of the two shapes is populated:
//
//   - Path: navigate there. The literal ".." means "the parent collection"
//     and is resolved by trimming the last path segment.
//   - URL + Filename: download the file at URL under Filename.
type ActionResult struct {
	Path     string `json:"path,omitempty"`
	URL      string `json:"url,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// IsRedirect reports whether the result is a navigation instruction.
func (r *ActionResult) IsRedirect() bool { return r != nil && r.Path != "" }

// IsDownload reports whether the result is a file-download instruction.
func (r *ActionResult) IsDownload() bool { return r != nil && r.URL != "" }

// ActionResponse is what an action endpoint returns on success. The
// invalidate keys are advisory cache keys the backend asserts are now stale;
// the client must honor them, never silently skip them.
type ActionResponse struct {
	Result         *ActionResult `json:"action_result,omitempty"`
	InvalidateKeys []string      `json:"invalidate_keys,omitempty"`
	Object         Object        `json:"object,omitempty"`
}
