package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventstage/internal/domain"
	"eventstage/internal/media"
)

type eventService struct {
	eventRepo      domain.EventRepository
	categoryRepo   domain.CategoryRepository
	mediaStore     domain.MediaStore
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewEventService creates an EventService. The media store is used for
// best-effort deletion of replaced or orphaned image assets.
func NewEventService(eventRepo domain.EventRepository,
	categoryRepo domain.CategoryRepository,
	mediaStore domain.MediaStore,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		categoryRepo:   categoryRepo,
		mediaStore:     mediaStore,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) Create(ctx context.Context, actor domain.Actor, event *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !actor.HasRole(domain.RoleOrganizer) {
		return nil, domain.ErrForbidden
	}

	event.Name = strings.TrimSpace(event.Name)
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, event.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	now := time.Now()
	event.OrganizerID = actor.ID
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Status == "" {
		event.Status = domain.StatusScheduled
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// validateEvent checks the cross-field invariants that survive a merge:
// end time not before start time, and the type deciding which of location
// and link is required.
func validateEvent(e *domain.Event) error {
	if !domain.ValidEventStatus(e.Status) && e.Status != "" {
		return fmt.Errorf("%w: invalid status %q", domain.ErrInvalidInput, e.Status)
	}
	if !domain.ValidEventType(e.Type) {
		return fmt.Errorf("%w: invalid type %q", domain.ErrInvalidInput, e.Type)
	}
	if e.EndTime.Before(e.StartTime) {
		return fmt.Errorf("%w: end_time must not be before start_time", domain.ErrInvalidInput)
	}
	switch e.Type {
	case domain.TypeOnStage:
		if e.Location == nil || strings.TrimSpace(*e.Location) == "" {
			return fmt.Errorf("%w: location is required for OnStage events", domain.ErrInvalidInput)
		}
	case domain.TypeOnline:
		if e.Link == nil || strings.TrimSpace(*e.Link) == "" {
			return fmt.Errorf("%w: link is required for Online events", domain.ErrInvalidInput)
		}
	}
	return nil
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	details, err := s.eventRepo.GetDetailsByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return details, nil
}

func (s *eventService) List(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, actor domain.Actor, id string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !actor.HasRole(domain.RoleOrganizer) {
		return nil, domain.ErrForbidden
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != actor.ID {
		return nil, domain.ErrForbidden
	}

	merged := mergeEvent(event, upd)
	if err := validateEvent(merged); err != nil {
		return nil, err
	}
	if upd.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *upd.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrCategoryNotFound
			}
			return nil, fmt.Errorf("get category: %w", err)
		}
	}

	// Image replacement protocol: when the request replaces or clears the
	// stored image, the old asset is destroyed on the media host first.
	// Failures are logged and swallowed; a crash between the external delete
	// and the row update is an accepted inconsistency window.
	if upd.Image.Set && event.Image != nil {
		old := *event.Image
		switch {
		case upd.Image.Value == nil:
			s.destroyImage(ctx, old)
		case *upd.Image.Value != old:
			s.destroyImage(ctx, old)
		}
	}

	updated, err := s.eventRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

// mergeEvent applies the partial update on top of the current record so the
// cross-field invariants can be checked against the final state.
func mergeEvent(e *domain.Event, upd domain.EventUpdate) *domain.Event {
	merged := *e
	if upd.Name != nil {
		merged.Name = *upd.Name
	}
	if upd.Description != nil {
		merged.Description = *upd.Description
	}
	if upd.CategoryID != nil {
		merged.CategoryID = *upd.CategoryID
	}
	if upd.StartTime != nil {
		merged.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		merged.EndTime = *upd.EndTime
	}
	if upd.Status != nil {
		merged.Status = *upd.Status
	}
	if upd.Type != nil {
		merged.Type = *upd.Type
	}
	if upd.Location.Set {
		merged.Location = upd.Location.Value
	}
	if upd.Link.Set {
		merged.Link = upd.Link.Value
	}
	if upd.Image.Set {
		merged.Image = upd.Image.Value
	}
	return &merged
}

func (s *eventService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !actor.HasRole(domain.RoleOrganizer) {
		return domain.ErrForbidden
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != actor.ID {
		return domain.ErrForbidden
	}

	// Best-effort asset cleanup; the row is removed regardless of the outcome.
	if event.Image != nil {
		s.destroyImage(ctx, *event.Image)
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// destroyImage resolves the media host identifier from the image URL and asks
// the host to destroy the asset. It never fails the surrounding operation.
func (s *eventService) destroyImage(ctx context.Context, imageURL string) {
	publicID, ok := media.PublicIDFromURL(imageURL)
	if !ok {
		s.logger.WarnContext(ctx, "image url has no recoverable media id, skipping delete", "url", imageURL)
		return
	}
	if err := s.mediaStore.Destroy(ctx, publicID); err != nil {
		s.logger.ErrorContext(ctx, "media asset deletion failed", "public_id", publicID, "err", err)
	}
}
