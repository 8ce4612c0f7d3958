package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrCategoryNotFound = errors.New("category not found")
)

// EventStatus is the lifecycle status of an event.
type EventStatus string

const (
	StatusScheduled EventStatus = "scheduled"
	StatusOngoing   EventStatus = "ongoing"
	StatusCompleted EventStatus = "completed"
	StatusCancelled EventStatus = "cancelled"
)

// EventStatuses lists the accepted status values.
var EventStatuses = []EventStatus{StatusScheduled, StatusOngoing, StatusCompleted, StatusCancelled}

// ValidEventStatus reports whether s is one of the accepted status values.
func ValidEventStatus(s EventStatus) bool {
	for _, v := range EventStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// EventType distinguishes online events from on-stage (venue) events.
type EventType string

const (
	TypeOnline  EventType = "Online"
	TypeOnStage EventType = "OnStage"
)

// ValidEventType reports whether t is one of the accepted type values.
func ValidEventType(t EventType) bool {
	return t == TypeOnline || t == TypeOnStage
}

// Event represents an organizer-owned event.
// Location is meaningful only for OnStage events, Link only for Online events.
// Image, when set, is a URL issued by the external media host.
// swagger:model Event
type Event struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	StartTime   time.Time   `json:"start_time"`
	EndTime     time.Time   `json:"end_time"`
	Status      EventStatus `json:"status"`
	Type        EventType   `json:"type"`
	Location    *string     `json:"location"`
	Link        *string     `json:"link"`
	Image       *string     `json:"image"`
	CategoryID  string      `json:"category_id"`
	OrganizerID string      `json:"organizer_id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// EventDetails bundles an event with its expanded organizer and category.
// The embedded event marshals flat, with organizer and category nested.
type EventDetails struct {
	*Event
	Organizer *User     `json:"organizer"`
	Category  *Category `json:"category"`
}

// OptionalString is a tri-state JSON string: absent, explicit null, or a value.
// Set is true when the field was present in the request body.
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked for fields
// present in the body, so Set is always true here; an explicit null leaves
// Value nil.
func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// String returns the value or "" when absent or null.
func (o OptionalString) String() string {
	if o.Value == nil {
		return ""
	}
	return *o.Value
}

// EventUpdate is a partial change set for an event. Nil pointer fields and
// unset optionals are left unchanged by Update.
type EventUpdate struct {
	Name        *string
	Description *string
	CategoryID  *string
	StartTime   *time.Time
	EndTime     *time.Time
	Status      *EventStatus
	Type        *EventType
	Location    OptionalString
	Link        OptionalString
	Image       OptionalString
}

// Empty reports whether the update changes nothing.
func (u EventUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.CategoryID == nil &&
		u.StartTime == nil && u.EndTime == nil && u.Status == nil && u.Type == nil &&
		!u.Location.Set && !u.Link.Set && !u.Image.Set
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetDetailsByID(ctx context.Context, id string) (*EventDetails, error)
	List(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, id string, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// MediaStore is the port to the external media host. Destroy removes the
// asset addressed by the host's public identifier.
type MediaStore interface {
	Destroy(ctx context.Context, publicID string) error
}

// EventService defines the business logic for the event lifecycle, including
// best-effort cleanup of replaced or orphaned media assets.
type EventService interface {
	Create(ctx context.Context, actor Actor, event *Event) (*Event, error)
	Get(ctx context.Context, id string) (*EventDetails, error)
	List(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, actor Actor, id string, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, actor Actor, id string) error
}
