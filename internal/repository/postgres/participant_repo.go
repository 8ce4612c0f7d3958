package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventstage/internal/domain"
)

// uniqueViolation is the Postgres error code raised on duplicate key inserts.
const uniqueViolation = "23505"

type participantRepository struct {
	DB *sql.DB
}

func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &participantRepository{
		DB: db,
	}
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	query := `
		INSERT INTO participants (name, email, event_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, p.Name, p.Email, p.EventID, p.CreatedAt, p.UpdatedAt).
		Scan(&p.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *participantRepository) ExistsByEventAndEmail(ctx context.Context, eventID, email string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM participants WHERE event_id = $1 AND email = $2
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *participantRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	query := `
		SELECT id, name, email, event_id, created_at, updated_at
		FROM participants
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*domain.Participant, 0)
	for rows.Next() {
		p := &domain.Participant{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.EventID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
