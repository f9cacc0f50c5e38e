package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-gin-event-calendar/internal/model"
	apperrors "go-gin-event-calendar/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)
	Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error)
	// ListFeed 行事曆查詢，viewerID 為 0 時不計算觀看者的參加狀態
	ListFeed(ctx context.Context, q model.FeedQuery, viewerID int) ([]*model.FeedRow, error)

	// Transaction methods
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error)
	// Delete 連同報名與通知一起刪除，回傳刪除的報名數
	Delete(ctx context.Context, tx pgx.Tx, id int) (int64, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `e.id, e.event_id, e.title, e.description, e.location, e.start_at, e.end_at,
		e.max_participants, e.organizer_id, e.status, e.created_at, e.updated_at`

const organizerColumns = `u.id, u.username, u.full_name, u.email, u.created_at, u.updated_at`

func eventScanTargets(event *model.Event) []any {
	return []any{
		&event.ID,
		&event.EventID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartAt,
		&event.EndAt,
		&event.MaxParticipants,
		&event.OrganizerID,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
	}
}

func organizerScanTargets(user *model.User) []any {
	return []any{
		&user.ID,
		&user.Username,
		&user.FullName,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	}
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (
			event_id, title, description, location, start_at, end_at,
			max_participants, organizer_id, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, event_id, title, description, location, start_at, end_at,
		          max_participants, organizer_id, status, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		event.EventID, event.Title, event.Description, event.Location,
		event.StartAt, event.EndAt, event.MaxParticipants, event.OrganizerID, event.Status,
	).Scan(eventScanTargets(event)...)
	if err != nil {
		if pgErrorCode(err) == pgCheckViolation {
			return nil, apperrors.NewValidationError("event", "validation.constraint")
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `, ` + organizerColumns + `
		FROM events e
		JOIN users u ON u.id = e.organizer_id
		WHERE e.id = $1
	`

	var event model.Event
	var organizer model.User
	targets := append(eventScanTargets(&event), organizerScanTargets(&organizer)...)
	err := r.pool.QueryRow(ctx, query, id).Scan(targets...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	event.Organizer = &organizer

	return &event, nil
}

// FindByIDWithLock 鎖住活動列，同一活動的報名寫入因此序列化
func (r *EventRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		WHERE e.id = $1
		FOR UPDATE
	`

	var event model.Event
	err := tx.QueryRow(ctx, query, id).Scan(eventScanTargets(&event)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Title != nil {
		add("title", *params.Title)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Location != nil {
		add("location", *params.Location)
	}
	if params.StartAt != nil {
		add("start_at", *params.StartAt)
	}
	if params.EndAt != nil {
		add("end_at", *params.EndAt)
	}
	if params.MaxParticipants != nil {
		add("max_participants", *params.MaxParticipants)
	}
	if params.Status != nil {
		add("status", *params.Status)
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	add("updated_at", time.Now().UTC())

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING id, event_id, title, description, location, start_at, end_at,
		          max_participants, organizer_id, status, created_at, updated_at
	`, strings.Join(sets, ", "), argPos)

	var event model.Event
	err := r.pool.QueryRow(ctx, query, args...).Scan(eventScanTargets(&event)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		if pgErrorCode(err) == pgCheckViolation {
			return nil, apperrors.NewValidationError("event", "validation.constraint")
		}
		return nil, err
	}

	return &event, nil
}

// Delete 外鍵為 RESTRICT，依序刪除通知、報名、活動；必須在呼叫端的 transaction 內執行
func (r *EventRepositoryImpl) Delete(ctx context.Context, tx pgx.Tx, id int) (int64, error) {
	if _, err := tx.Exec(ctx, `DELETE FROM notifications WHERE event_id = $1`, id); err != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", err)
	}

	removed, err := tx.Exec(ctx, `DELETE FROM participations WHERE event_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete participations: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return 0, apperrors.ErrEventNotFound
	}
	return removed.RowsAffected(), nil
}

func (r *EventRepositoryImpl) ListFeed(ctx context.Context, q model.FeedQuery, viewerID int) ([]*model.FeedRow, error) {
	conds := []string{"e.status = $2"}
	args := []interface{}{viewerID, model.EventStatusPublished}
	argPos := 3

	add := func(format string, value interface{}) {
		conds = append(conds, fmt.Sprintf(format, argPos))
		args = append(args, value)
		argPos++
	}

	if q.UpcomingOnly {
		add("e.start_at >= $%d", q.Now)
	} else {
		// 半開區間重疊：活動開始早於區間結束，且結束晚於區間開始
		if q.HasWindow() {
			add("e.start_at < $%d", *q.WindowEnd)
			add("e.end_at > $%d", *q.WindowStart)
		}
		switch q.Filter {
		case model.FeedFilterMine:
			conds = append(conds, "e.organizer_id = $1")
		case model.FeedFilterParticipating:
			conds = append(conds, `EXISTS (
				SELECT 1 FROM participations vp
				WHERE vp.event_id = e.id AND vp.participant_id = $1 AND vp.status = 'accepted'
			)`)
		case model.FeedFilterUpcoming:
			add("e.start_at >= $%d", q.Now)
		}
	}

	query := `
		SELECT ` + eventColumns + `, ` + organizerColumns + `,
		       (SELECT COUNT(*) FROM participations p
		        WHERE p.event_id = e.id AND p.status = 'accepted') AS accepted_count,
		       EXISTS (SELECT 1 FROM participations p
		               WHERE p.event_id = e.id AND p.participant_id = $1 AND p.status = 'accepted') AS viewer_participating
		FROM events e
		JOIN users u ON u.id = e.organizer_id
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY e.start_at ASC, e.id ASC
	`
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, q.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feed := make([]*model.FeedRow, 0)
	for rows.Next() {
		var event model.Event
		var organizer model.User
		row := &model.FeedRow{Event: &event}
		targets := append(eventScanTargets(&event), organizerScanTargets(&organizer)...)
		targets = append(targets, &row.AcceptedCount, &row.ViewerParticipating)
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		event.Organizer = &organizer
		feed = append(feed, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return feed, nil
}
