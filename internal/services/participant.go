package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventstage/internal/domain"
)

type participantService struct {
	participantRepo domain.ParticipantRepository
	eventRepo       domain.EventRepository
	emailService    domain.EmailService
	frontendURL     string
	logger          *slog.Logger
	contextTimeout  time.Duration
}

// NewParticipantService creates a ParticipantService. The email service may be
// nil, in which case no confirmation emails are sent.
func NewParticipantService(participantRepo domain.ParticipantRepository,
	eventRepo domain.EventRepository,
	emailService domain.EmailService,
	frontendURL string,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		emailService:    emailService,
		frontendURL:     strings.TrimSuffix(frontendURL, "/"),
		logger:          logger,
		contextTimeout:  timeout,
	}
}

func (s *participantService) Register(ctx context.Context, name, email, eventID string) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	exists, err := s.participantRepo.ExistsByEventAndEmail(ctx, eventID, email)
	if err != nil {
		return nil, fmt.Errorf("check registration: %w", err)
	}
	if exists {
		return nil, domain.ErrAlreadyRegistered
	}

	now := time.Now()
	participant := domain.NewParticipant(strings.TrimSpace(name), email, eventID, now, now)
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		// The unique constraint can still fire under concurrent registration.
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create participant: %w", err)
	}

	// Fire-and-forget confirmation; registration succeeds regardless.
	if s.emailService != nil {
		data := s.confirmationData(participant, event)
		if err := s.emailService.SendRegistrationConfirmation(ctx, data); err != nil {
			s.logger.ErrorContext(ctx, "registration confirmation email failed",
				"email", participant.Email, "event_id", event.ID, "err", err)
		}
	}

	return participant, nil
}

func (s *participantService) confirmationData(p *domain.Participant, e *domain.Event) *domain.RegistrationConfirmationEmailData {
	venue := "Online Event"
	if e.Type == domain.TypeOnStage && e.Location != nil {
		venue = *e.Location
	}
	return &domain.RegistrationConfirmationEmailData{
		Email:           p.Email,
		ParticipantName: p.Name,
		EventName:       e.Name,
		EventDate:       e.StartTime.Format("January 2, 2006"),
		EventTimeRange:  e.StartTime.Format("3:04 PM") + " - " + e.EndTime.Format("3:04 PM"),
		Venue:           venue,
		EventURL:        fmt.Sprintf("%s/event/%s", s.frontendURL, e.ID),
	}
}

func (s *participantService) ListByEvent(ctx context.Context, actor domain.Actor, eventID string) ([]*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !actor.HasRole(domain.RoleOrganizer) {
		return nil, domain.ErrForbidden
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != actor.ID {
		return nil, domain.ErrForbidden
	}

	participants, err := s.participantRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if participants == nil {
		participants = []*domain.Participant{}
	}
	return participants, nil
}
