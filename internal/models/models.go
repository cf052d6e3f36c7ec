package models

import (
	"time"

	"github.com/google/uuid"
)

// ObjectType names a backend collection. Every list/detail query and every
// action group is scoped to one of these.
type ObjectType string

const (
	ObjectBrands       ObjectType = "brands"
	ObjectCampaigns    ObjectType = "campaigns"
	ObjectRoster       ObjectType = "roster"
	ObjectDeliverables ObjectType = "deliverables"
	ObjectInvoices     ObjectType = "invoices"
	ObjectMedia        ObjectType = "media"
	ObjectDashboards   ObjectType = "dashboards"
)

// Team is the top-level isolation boundary. Every user, brand, campaign and
// roster member belongs to exactly one team; the backend scopes every query
// to the session's team, so no cross-team id is ever valid here.
type Team struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// User is a person within a team.
type User struct {
	ID          uuid.UUID `json:"id"`
	TeamID      uuid.UUID `json:"team_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Brand is a client company the team runs campaigns for.
type Brand struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	Name      string    `json:"name"`
	Website   string    `json:"website,omitempty"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Campaign ties a brand to a set of deliverables and invoices.
type Campaign struct {
	ID          uuid.UUID  `json:"id"`
	TeamID      uuid.UUID  `json:"team_id"`
	BrandID     uuid.UUID  `json:"brand_id"`
	Name        string     `json:"name"`
	State       string     `json:"state"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	TotalCents  int64      `json:"total_cents"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// RosterMember is a creator managed by the team. Roster members are
// threadable: each owns a comment thread addressed by ("roster", id).
type RosterMember struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Handle    string    `json:"handle,omitempty"`
	Platform  string    `json:"platform,omitempty"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Deliverable is a unit of campaign work assigned to a roster member.
// Deliverables are threadable as well.
type Deliverable struct {
	ID         uuid.UUID  `json:"id"`
	TeamID     uuid.UUID  `json:"team_id"`
	CampaignID uuid.UUID  `json:"campaign_id"`
	RosterID   uuid.UUID  `json:"roster_id"`
	Title      string     `json:"title"`
	State      string     `json:"state"`
	DueAt      *time.Time `json:"due_at,omitempty"`
	PostedAt   *time.Time `json:"posted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Invoice bills a brand for campaign work.
type Invoice struct {
	ID          uuid.UUID  `json:"id"`
	TeamID      uuid.UUID  `json:"team_id"`
	CampaignID  uuid.UUID  `json:"campaign_id"`
	Number      string     `json:"number"`
	State       string     `json:"state"`
	AmountCents int64      `json:"amount_cents"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MediaItem is an uploaded asset attached to a campaign or deliverable.
type MediaItem struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// Object is the generic row shape returned by list and detail endpoints.
// List views render whatever fields the backend sends; the typed models
// above exist for code paths that need real fields.
type Object map[string]any

// ID extracts the object's id field, or "" when absent.
func (o Object) ID() string {
	if v, ok := o["id"].(string); ok {
		return v
	}
	return ""
}

// Page is one page of a list response.
type Page struct {
	Items   []Object `json:"items"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	PerPage int      `json:"per_page"`
}
