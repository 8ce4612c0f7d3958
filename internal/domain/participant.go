package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyRegistered is returned when the (email, event) pair already has a registration.
var ErrAlreadyRegistered = errors.New("already registered for this event")

// Participant is a registration of an email address for a specific event.
// The (event, email) pair is unique.
// swagger:model Participant
type Participant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewParticipant returns a new Participant. ID is typically set by the repository on create.
func NewParticipant(name, email, eventID string, createdAt, updatedAt time.Time) *Participant {
	return &Participant{
		Name:      name,
		Email:     email,
		EventID:   eventID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// ParticipantRepository defines storage operations for participant registrations.
type ParticipantRepository interface {
	Create(ctx context.Context, p *Participant) error
	ExistsByEventAndEmail(ctx context.Context, eventID, email string) (bool, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Participant, error)
}

// ParticipantService defines registration operations.
type ParticipantService interface {
	// Register creates a registration for the event. A duplicate (email, event)
	// pair returns ErrAlreadyRegistered. The confirmation email is best-effort.
	Register(ctx context.Context, name, email, eventID string) (*Participant, error)
	ListByEvent(ctx context.Context, actor Actor, eventID string) ([]*Participant, error)
}
