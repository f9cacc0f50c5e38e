package repository

import (
	"context"
	"fmt"
	"time"

	"go-gin-event-calendar/internal/model"
	apperrors "go-gin-event-calendar/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ParticipationRepository interface {
	FindByID(ctx context.Context, id int) (*model.Participation, error)
	FindByEventAndParticipant(ctx context.Context, eventID, participantID int) (*model.Participation, error)
	ListByEventID(ctx context.Context, eventID int) ([]*model.Participation, error)
	CountAccepted(ctx context.Context, eventID int) (int, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, participation *model.Participation) (*model.Participation, error)
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Participation, error)
	FindByEventAndParticipantWithLock(ctx context.Context, tx pgx.Tx, eventID, participantID int) (*model.Participation, error)
	CountAcceptedWithTx(ctx context.Context, tx pgx.Tx, eventID int) (int, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.ParticipationStatus) (*model.Participation, error)
}

type ParticipationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewParticipationRepository(pool *pgxpool.Pool) ParticipationRepository {
	return &ParticipationRepositoryImpl{
		pool: pool,
	}
}

const participationColumns = `id, event_id, participant_id, status, comments, created_at, updated_at`

func participationScanTargets(p *model.Participation) []any {
	return []any{
		&p.ID,
		&p.EventID,
		&p.ParticipantID,
		&p.Status,
		&p.Comments,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}

func scanParticipation(row pgx.Row) (*model.Participation, error) {
	var p model.Participation
	err := row.Scan(participationScanTargets(&p)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrParticipationNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ParticipationRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, participation *model.Participation) (*model.Participation, error) {
	query := `
		INSERT INTO participations (event_id, participant_id, status, comments)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + participationColumns

	err := tx.QueryRow(ctx, query,
		participation.EventID, participation.ParticipantID, participation.Status, participation.Comments,
	).Scan(participationScanTargets(participation)...)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return nil, apperrors.ErrParticipationExists
		}
		return nil, fmt.Errorf("failed to create participation: %w", err)
	}

	return participation, nil
}

func (r *ParticipationRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Participation, error) {
	query := `SELECT ` + participationColumns + ` FROM participations WHERE id = $1`
	return scanParticipation(r.pool.QueryRow(ctx, query, id))
}

func (r *ParticipationRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Participation, error) {
	query := `SELECT ` + participationColumns + ` FROM participations WHERE id = $1 FOR UPDATE`
	return scanParticipation(tx.QueryRow(ctx, query, id))
}

func (r *ParticipationRepositoryImpl) FindByEventAndParticipant(ctx context.Context, eventID, participantID int) (*model.Participation, error) {
	query := `
		SELECT ` + participationColumns + `
		FROM participations
		WHERE event_id = $1 AND participant_id = $2
	`
	return scanParticipation(r.pool.QueryRow(ctx, query, eventID, participantID))
}

func (r *ParticipationRepositoryImpl) FindByEventAndParticipantWithLock(ctx context.Context, tx pgx.Tx, eventID, participantID int) (*model.Participation, error) {
	query := `
		SELECT ` + participationColumns + `
		FROM participations
		WHERE event_id = $1 AND participant_id = $2
		FOR UPDATE
	`
	return scanParticipation(tx.QueryRow(ctx, query, eventID, participantID))
}

func (r *ParticipationRepositoryImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.Participation, error) {
	query := `
		SELECT p.id, p.event_id, p.participant_id, p.status, p.comments, p.created_at, p.updated_at,
		       u.id, u.username, u.full_name, u.email, u.created_at, u.updated_at
		FROM participations p
		JOIN users u ON u.id = p.participant_id
		WHERE p.event_id = $1
		ORDER BY p.created_at ASC, p.id ASC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participations := make([]*model.Participation, 0)
	for rows.Next() {
		var p model.Participation
		var user model.User
		targets := append(participationScanTargets(&p), organizerScanTargets(&user)...)
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		p.Participant = &user
		participations = append(participations, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return participations, nil
}

const countAcceptedQuery = `
	SELECT COUNT(*)
	FROM participations
	WHERE event_id = $1 AND status = 'accepted'
`

func (r *ParticipationRepositoryImpl) CountAccepted(ctx context.Context, eventID int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, countAcceptedQuery, eventID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountAcceptedWithTx 需在持有活動列鎖的 transaction 內呼叫，計數才不會過期
func (r *ParticipationRepositoryImpl) CountAcceptedWithTx(ctx context.Context, tx pgx.Tx, eventID int) (int, error) {
	var count int
	err := tx.QueryRow(ctx, countAcceptedQuery, eventID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ParticipationRepositoryImpl) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.ParticipationStatus) (*model.Participation, error) {
	query := `
		UPDATE participations
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + participationColumns

	return scanParticipation(tx.QueryRow(ctx, query, status, time.Now().UTC(), id))
}
