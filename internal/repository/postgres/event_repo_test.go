package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"eventstage/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var eventRowColumns = []string{
	"id", "name", "description", "start_time", "end_time", "status", "type",
	"location", "link", "image", "category_id", "organizer_id", "created_at", "updated_at",
}

func sampleEventRow(id string) []driver.Value {
	ts := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, "Launch Party", "annual launch", ts, ts.Add(2 * time.Hour), "scheduled", "OnStage",
		"Main Hall", nil, "https://res.cloudinary.com/demo/image/upload/v1/events/a.png",
		"cat-1", "org-1", ts, ts,
	}
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				Name:        "Launch Party",
				Description: "annual launch",
				StartTime:   time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC),
				EndTime:     time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC),
				Status:      domain.StatusScheduled,
				Type:        domain.TypeOnStage,
				CategoryID:  "cat-1",
				OrganizerID: "org-1",
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID: "ev-uuid-1",
		},
		{
			name:  "db error",
			event: &domain.Event{Name: "x", Type: domain.TypeOnline},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success with nullable columns", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, name, description, start_time, end_time, status, type`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows(eventRowColumns).AddRow(sampleEventRow("ev-1")...))

		repo := NewEventRepository(db)
		e, err := repo.GetByID(ctx, "ev-1")
		require.NoError(t, err)
		require.Equal(t, "ev-1", e.ID)
		require.NotNil(t, e.Location)
		require.Equal(t, "Main Hall", *e.Location)
		require.Nil(t, e.Link)
		require.NotNil(t, e.Image)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, name, description`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_GetDetailsByID(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ts := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	cols := append(append([]string{}, eventRowColumns...),
		"u_id", "u_email", "u_name", "u_created_at", "u_updated_at",
		"c_id", "c_name", "c_display_name")
	row := append(sampleEventRow("ev-1"),
		"org-1", "org@example.com", "Org One", ts, ts,
		"cat-1", "music", "Music")

	mock.ExpectQuery(`FROM events e\s+JOIN users u ON u.id = e.organizer_id\s+JOIN categories c ON c.id = e.category_id`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(row...))

	repo := NewEventRepository(db)
	details, err := repo.GetDetailsByID(ctx, "ev-1")
	require.NoError(t, err)
	require.Equal(t, "ev-1", details.ID)
	require.Equal(t, "org@example.com", details.Organizer.Email)
	require.Equal(t, "Music", details.Category.DisplayName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(eventRowColumns).
		AddRow(sampleEventRow("ev-1")...).
		AddRow(sampleEventRow("ev-2")...)
	mock.ExpectQuery(`FROM events ORDER BY start_time ASC`).WillReturnRows(rows)

	repo := NewEventRepository(db)
	events, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("scalar update", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		name := "Renamed"
		mock.ExpectQuery(`UPDATE events SET updated_at = NOW\(\), name = \$1\s+WHERE id = \$2`).
			WithArgs(name, "ev-1").
			WillReturnRows(sqlmock.NewRows(eventRowColumns).AddRow(sampleEventRow("ev-1")...))

		repo := NewEventRepository(db)
		_, err = repo.Update(ctx, "ev-1", domain.EventUpdate{Name: &name})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("explicit null clears image column", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events SET updated_at = NOW\(\), image = \$1\s+WHERE id = \$2`).
			WithArgs(nil, "ev-1").
			WillReturnRows(sqlmock.NewRows(eventRowColumns).AddRow(sampleEventRow("ev-1")...))

		repo := NewEventRepository(db)
		_, err = repo.Update(ctx, "ev-1", domain.EventUpdate{Image: domain.OptionalString{Set: true}})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty update falls back to fetch", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, name, description`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows(eventRowColumns).AddRow(sampleEventRow("ev-1")...))

		repo := NewEventRepository(db)
		e, err := repo.Update(ctx, "ev-1", domain.EventUpdate{})
		require.NoError(t, err)
		require.Equal(t, "ev-1", e.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		name := "x"
		mock.ExpectQuery(`UPDATE events SET`).
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.Update(ctx, "missing", domain.EventUpdate{Name: &name})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		require.NoError(t, repo.Delete(ctx, "ev-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewEventRepository(db)
		require.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrNotFound)
	})
}
