package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"eventstage/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func optSet(s string) domain.OptionalString {
	return domain.OptionalString{Set: true, Value: &s}
}

func optNull() domain.OptionalString {
	return domain.OptionalString{Set: true}
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID      map[string]*domain.Event
	nextID    int
	createErr error
	updateErr error
	deleteErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	copied := *e
	f.byID[e.ID] = &copied
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetDetailsByID(ctx context.Context, id string) (*domain.EventDetails, error) {
	e, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.EventDetails{
		Event:     e,
		Organizer: &domain.User{ID: e.OrganizerID},
		Category:  &domain.Category{ID: e.CategoryID},
	}, nil
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	out := make([]*domain.Event, 0, len(f.byID))
	for _, e := range f.byID {
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	merged := mergeEvent(e, upd)
	merged.UpdatedAt = time.Now()
	f.byID[id] = merged
	copied := *merged
	return &copied, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeCategoryRepo is an in-memory CategoryRepository for tests.
type fakeCategoryRepo struct {
	byID map[string]*domain.Category
}

func newFakeCategoryRepo(ids ...string) *fakeCategoryRepo {
	f := &fakeCategoryRepo{byID: make(map[string]*domain.Category)}
	for _, id := range ids {
		f.byID[id] = &domain.Category{ID: id, Name: id, DisplayName: id}
	}
	return f
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

// spyMediaStore records Destroy calls and can fail on demand.
type spyMediaStore struct {
	destroyed []string
	err       error
}

func (s *spyMediaStore) Destroy(ctx context.Context, publicID string) error {
	s.destroyed = append(s.destroyed, publicID)
	return s.err
}

func organizerActor(id string) domain.Actor {
	return domain.Actor{ID: id, Roles: []string{domain.RoleOrganizer}}
}

func newTestEventService(repo *fakeEventRepo, cats *fakeCategoryRepo, store *spyMediaStore) domain.EventService {
	return NewEventService(repo, cats, store, testLogger(), 5*time.Second)
}

func seedEvent(t *testing.T, repo *fakeEventRepo, organizerID string, image *string) *domain.Event {
	t.Helper()
	now := time.Now()
	e := &domain.Event{
		Name:        "Launch Party",
		Description: "annual launch",
		StartTime:   now.Add(24 * time.Hour),
		EndTime:     now.Add(26 * time.Hour),
		Status:      domain.StatusScheduled,
		Type:        domain.TypeOnStage,
		Location:    strPtr("Main Hall"),
		Image:       image,
		CategoryID:  "cat-1",
		OrganizerID: organizerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.Create(context.Background(), e))
	return e
}

func TestEventServiceCreate(t *testing.T) {
	t.Run("organizer creates event", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := newTestEventService(repo, newFakeCategoryRepo("cat-1"), &spyMediaStore{})
		now := time.Now()
		event := &domain.Event{
			Name:       "GopherCon",
			StartTime:  now,
			EndTime:    now.Add(time.Hour),
			Type:       domain.TypeOnline,
			Link:       strPtr("https://example.com/live"),
			CategoryID: "cat-1",
		}
		created, err := svc.Create(context.Background(), organizerActor("org-1"), event)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "org-1", created.OrganizerID)
		assert.Equal(t, domain.StatusScheduled, created.Status)
	})

	t.Run("participant role is forbidden", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := newTestEventService(repo, newFakeCategoryRepo("cat-1"), &spyMediaStore{})
		actor := domain.Actor{ID: "usr-1", Roles: []string{domain.RoleParticipant}}
		_, err := svc.Create(context.Background(), actor, &domain.Event{Name: "x", Type: domain.TypeOnline, Link: strPtr("https://x"), CategoryID: "cat-1"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Empty(t, repo.byID)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo(), newFakeCategoryRepo(), &spyMediaStore{})
		_, err := svc.Create(context.Background(), organizerActor("org-1"), &domain.Event{
			Name: "x", Type: domain.TypeOnline, Link: strPtr("https://x"), CategoryID: "missing",
		})
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	})

	t.Run("on-stage event requires location", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo(), newFakeCategoryRepo("cat-1"), &spyMediaStore{})
		_, err := svc.Create(context.Background(), organizerActor("org-1"), &domain.Event{
			Name: "x", Type: domain.TypeOnStage, CategoryID: "cat-1",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("online event requires link", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo(), newFakeCategoryRepo("cat-1"), &spyMediaStore{})
		_, err := svc.Create(context.Background(), organizerActor("org-1"), &domain.Event{
			Name: "x", Type: domain.TypeOnline, CategoryID: "cat-1",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("end before start", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo(), newFakeCategoryRepo("cat-1"), &spyMediaStore{})
		now := time.Now()
		_, err := svc.Create(context.Background(), organizerActor("org-1"), &domain.Event{
			Name: "x", Type: domain.TypeOnline, Link: strPtr("https://x"), CategoryID: "cat-1",
			StartTime: now, EndTime: now.Add(-time.Hour),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestEventServiceUpdateImageCleanup(t *testing.T) {
	const imageURL = "https://res.cloudinary.com/demo/image/upload/v123/events/a.png"

	t.Run("image untouched, no destroy", func(t *testing.T) {
		repo := newFakeEventRepo()
		store := &spyMediaStore{}
		svc := newTestEventService(repo, newFakeCategoryRepo("cat-1"), store)
		e := seedEvent(t, repo, "org-1", strPtr(imageURL))

		updated, err := svc.Update(context.Background(), organizerActor("org-1"), e.ID, domain.EventUpdate{Name: strPtr("Renamed")})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Empty(t, store.destroyed)
	})

	t.Run("same image url resent, no destroy", func(t *testing.T) {
		repo := newFakeEventRepo()
		store := &spyMediaStore{}
		svc := newTestEventService(repo, newFakeCategoryRepo("cat-1"), store)
		e := seedEvent(t, repo, "org-1", strPtr(imageURL))

		_, err := svc.Update(context.Background(), organizerActor("org-1"), e.ID, domain.EventUpdate{Image: optSet(imageURL)})
		require.NoError(t, err)
		assert.Empty(t, store.destroyed)
	})

	t.Run("explicit null destroys old asset once", func(t *testing.T) {
		repo := newFakeEventRepo()
		store := &spyMediaStore{}
		svc := newTestEventService(repo, newFakeCategoryRepo("cat-1"), store)
		e := seedEvent(t, repo, "org-1", strPtr(imageURL))

		updated, err := svc.Update(context.Background(), organizerActor("org-1"), e.ID, domain.EventUpdate{Image: optNull()})
		require.NoError(t, err)
		assert.Nil(t, updated.Image)
		assert.Equal(t, []string{"events/a"}, store.destroyed)
	})

	t.Run("replacement destroys the previous asset", func(t *testing.T) {
		repo := newFakeEventRepo()
		store := &spyMediaStore{}
		svc := newTestEventService(repo, newFakeCategoryRepo("cat-1"), store)
		e := seedEvent(t, repo, "org-1", strPtr(imageURL))

		newURL := "https://res.cloudinary.com/demo/image/upload/v456/events/b.png"
		updated, err := svc.Update(context.Background(), organizerActor("org-1"), e.ID, domain.EventUpdate{Image: optSet(newURL)})
		require.NoError(t, err)
		require.NotNil(t, updated.Image)
		assert.Equal(t, newURL, *updated.Image)
		assert.Equal(t, []string{"events/a"}, store.destroyed)
	})

	t.Run("destroy failure does not block the update", func(t *testing.T) {
		repo := newFakeEventRepo()
		store := &spyMediaStore{err: errors.New("media host down")}
		svc := newTestEventService(repo, newFakeCategoryRepo("cat-1"), store)
		e := seedEvent(t, repo, "org-1", strPtr(imageURL))

		updated, err := svc.Update(context.Background(), organizerActor("org-1"), e.ID, domain.EventUpdate{Image: optNull()})
		require.NoError(t, err)
		assert.Nil(t, updated.Image)
		assert.Len(t, store.destroyed, 1)
	})

	t.Run("unresolvable image url skips destroy but clears the column", func(t *testing.T) {
		repo := newFakeEventRepo()
		store := &spyMediaStore{}
		svc := newTestEventService(repo, newFakeCategoryRepo("cat-1"), store)
		e := seedEvent(t, repo, "org-1", strPtr("https://cdn.example.com/no-marker/pic.png"))

		updated, err := svc.Update(context.Background(), organizerActor("org-1"), e.ID, domain.EventUpdate{Image: optNull()})
		require.NoError(t, err)
		assert.Nil(t, updated.Image)
		assert.Empty(t, store.destroyed)
	})

	t.Run("non-owner gets forbidden and nothing changes", func(t *testing.T) {
		repo := newFakeEventRepo()
		store := &spyMediaStore{}
		svc := newTestEventService(repo, newFakeCategoryRepo("cat-1"), store)
		e := seedEvent(t, repo, "org-1", strPtr(imageURL))

		_, err := svc.Update(context.Background(), organizerActor("org-2"), e.ID, domain.EventUpdate{Image: optNull()})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Empty(t, store.destroyed)
		current, getErr := repo.GetByID(context.Background(), e.ID)
		require.NoError(t, getErr)
		require.NotNil(t, current.Image)
		assert.Equal(t, imageURL, *current.Image)
	})

	t.Run("unknown event", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo(), newFakeCategoryRepo("cat-1"), &spyMediaStore{})
		_, err := svc.Update(context.Background(), organizerActor("org-1"), "missing", domain.EventUpdate{Name: strPtr("x")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("merged state is validated", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := newTestEventService(repo, newFakeCategoryRepo("cat-1"), &spyMediaStore{})
		e := seedEvent(t, repo, "org-1", nil)

		// Switching to Online without a link must fail against the merged record.
		online := domain.TypeOnline
		_, err := svc.Update(context.Background(), organizerActor("org-1"), e.ID, domain.EventUpdate{Type: &online})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestEventServiceDelete(t *testing.T) {
	const imageURL = "https://res.cloudinary.com/demo/image/upload/v99/events/gone.jpg"

	t.Run("destroys asset and removes the row", func(t *testing.T) {
		repo := newFakeEventRepo()
		store := &spyMediaStore{}
		svc := newTestEventService(repo, newFakeCategoryRepo("cat-1"), store)
		e := seedEvent(t, repo, "org-1", strPtr(imageURL))

		require.NoError(t, svc.Delete(context.Background(), organizerActor("org-1"), e.ID))
		assert.Equal(t, []string{"events/gone"}, store.destroyed)
		_, err := repo.GetByID(context.Background(), e.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("destroy failure still deletes the row", func(t *testing.T) {
		repo := newFakeEventRepo()
		store := &spyMediaStore{err: errors.New("boom")}
		svc := newTestEventService(repo, newFakeCategoryRepo("cat-1"), store)
		e := seedEvent(t, repo, "org-1", strPtr(imageURL))

		require.NoError(t, svc.Delete(context.Background(), organizerActor("org-1"), e.ID))
		_, err := repo.GetByID(context.Background(), e.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("no image, no destroy call", func(t *testing.T) {
		repo := newFakeEventRepo()
		store := &spyMediaStore{}
		svc := newTestEventService(repo, newFakeCategoryRepo("cat-1"), store)
		e := seedEvent(t, repo, "org-1", nil)

		require.NoError(t, svc.Delete(context.Background(), organizerActor("org-1"), e.ID))
		assert.Empty(t, store.destroyed)
	})

	t.Run("non-owner forbidden, row and asset kept", func(t *testing.T) {
		repo := newFakeEventRepo()
		store := &spyMediaStore{}
		svc := newTestEventService(repo, newFakeCategoryRepo("cat-1"), store)
		e := seedEvent(t, repo, "org-1", strPtr(imageURL))

		err := svc.Delete(context.Background(), organizerActor("org-2"), e.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Empty(t, store.destroyed)
		_, getErr := repo.GetByID(context.Background(), e.ID)
		assert.NoError(t, getErr)
	})
}

func TestEventServiceGetAndList(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newTestEventService(repo, newFakeCategoryRepo("cat-1"), &spyMediaStore{})
	e := seedEvent(t, repo, "org-1", nil)

	details, err := svc.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, details.ID)
	assert.Equal(t, "org-1", details.Organizer.ID)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	events, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
