package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventstage/internal/domain"
)

// eventColumns is the column list scanned into a domain.Event.
const eventColumns = "id, name, description, start_time, end_time, status, type, location, link, image, category_id, organizer_id, created_at, updated_at"

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var locNull, linkNull, imgNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.StartTime, &e.EndTime, &e.Status, &e.Type,
		&locNull, &linkNull, &imgNull, &e.CategoryID, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if locNull.Valid {
		e.Location = &locNull.String
	}
	if linkNull.Valid {
		e.Link = &linkNull.String
	}
	if imgNull.Valid {
		e.Image = &imgNull.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, start_time, end_time, status, type, location, link, image, category_id, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.Description, e.StartTime, e.EndTime, e.Status, e.Type,
		e.Location, e.Link, e.Image, e.CategoryID, e.OrganizerID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetDetailsByID(ctx context.Context, id string) (*domain.EventDetails, error) {
	query := `
		SELECT e.id, e.name, e.description, e.start_time, e.end_time, e.status, e.type,
		       e.location, e.link, e.image, e.category_id, e.organizer_id, e.created_at, e.updated_at,
		       u.id, u.email, u.name, u.created_at, u.updated_at,
		       c.id, c.name, c.display_name
		FROM events e
		JOIN users u ON u.id = e.organizer_id
		JOIN categories c ON c.id = e.category_id
		WHERE e.id = $1
	`
	e := &domain.Event{}
	u := &domain.User{}
	c := &domain.Category{}
	var locNull, linkNull, imgNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.Description, &e.StartTime, &e.EndTime, &e.Status, &e.Type,
		&locNull, &linkNull, &imgNull, &e.CategoryID, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt,
		&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt,
		&c.ID, &c.Name, &c.DisplayName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if locNull.Valid {
		e.Location = &locNull.String
	}
	if linkNull.Valid {
		e.Link = &linkNull.String
	}
	if imgNull.Valid {
		e.Image = &imgNull.String
	}
	return &domain.EventDetails{Event: e, Organizer: u, Category: c}, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events ORDER BY start_time ASC`, eventColumns)
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.CategoryID != nil {
		add("category_id", *upd.CategoryID)
	}
	if upd.StartTime != nil {
		add("start_time", *upd.StartTime)
	}
	if upd.EndTime != nil {
		add("end_time", *upd.EndTime)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.Type != nil {
		add("type", *upd.Type)
	}
	// Nullable columns: an explicit null clears the value.
	if upd.Location.Set {
		add("location", upd.Location.Value)
	}
	if upd.Link.Set {
		add("link", upd.Link.Value)
	}
	if upd.Image.Set {
		add("image", upd.Image.Value)
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
