package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-gin-event-calendar/internal/cache"
	"go-gin-event-calendar/internal/model"
	"go-gin-event-calendar/internal/repository"
	apperrors "go-gin-event-calendar/pkg/app_errors"
	"go-gin-event-calendar/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EventService interface {
	// ListFeed 行事曆 feed，只讀
	ListFeed(ctx context.Context, viewer model.Viewer, q model.FeedQuery) ([]model.FeedItem, error)
	GetDetail(ctx context.Context, viewer model.Viewer, id int) (*model.EventDetail, error)
	// GetPublished 只回傳已發布的活動，其他狀態視為不存在
	GetPublished(ctx context.Context, id int) (*model.Event, error)
	Create(ctx context.Context, viewer model.Viewer, input model.CreateEventInput) (*model.Event, error)
	Update(ctx context.Context, viewer model.Viewer, id int, input model.UpdateEventInput) (*model.Event, error)
	// Delete 鎖定活動列後由 EventRepository.Delete 連同報名與通知一起刪除
	Delete(ctx context.Context, viewer model.Viewer, id int) error
}

type EventServiceImpl struct {
	txManager         repository.TxManager
	repo              repository.EventRepository
	participationRepo repository.ParticipationRepository
	userRepo          repository.UserRepository
	feedCache         cache.FeedCache
	loc               *time.Location
	clock             Clock
}

func NewEventService(
	txManager repository.TxManager,
	repo repository.EventRepository,
	participationRepo repository.ParticipationRepository,
	userRepo repository.UserRepository,
	feedCache cache.FeedCache,
	loc *time.Location,
	clock Clock,
) EventService {
	if loc == nil {
		loc = time.UTC
	}
	return &EventServiceImpl{
		txManager:         txManager,
		repo:              repo,
		participationRepo: participationRepo,
		userRepo:          userRepo,
		feedCache:         feedCache,
		loc:               loc,
		clock:             clock,
	}
}

func (s *EventServiceImpl) ListFeed(ctx context.Context, viewer model.Viewer, q model.FeedQuery) ([]model.FeedItem, error) {
	log := logger.WithComponent("service").With(zap.String("operation", "ListFeed"))

	q.Now = s.clock.now()
	if q.UpcomingOnly {
		q.WindowStart, q.WindowEnd = nil, nil
		q.Filter = model.FeedFilterAll
		q.Limit = model.UpcomingFeedLimit
	}
	// 未登入時 mine / participating 不做篩選
	if !viewer.Authenticated() && (q.Filter == model.FeedFilterMine || q.Filter == model.FeedFilterParticipating) {
		q.Filter = model.FeedFilterAll
	}

	if !q.Cacheable() {
		rows, err := s.repo.ListFeed(ctx, q, viewer.UserID)
		if err != nil {
			return nil, err
		}
		return model.BuildFeed(rows, q, viewer), nil
	}

	key := q.CacheKey(viewer)
	cached, version, hit, cacheErr := s.feedCache.Get(ctx, key)
	if cacheErr != nil {
		log.Warn("feed cache get failed", zap.Error(cacheErr))
	} else if hit {
		return model.BuildFeed(cached, q, viewer), nil
	}

	rows, err := s.repo.ListFeed(ctx, q, viewer.UserID)
	if err != nil {
		return nil, err
	}

	// Get 失敗時不知道查詢前的版本號，不寫入
	if cacheErr == nil {
		if err := s.feedCache.Set(ctx, version, key, rows); err != nil {
			log.Warn("feed cache set failed", zap.Error(err))
		}
	}
	return model.BuildFeed(rows, q, viewer), nil
}

func (s *EventServiceImpl) GetPublished(ctx context.Context, id int) (*model.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventStatusPublished {
		return nil, apperrors.ErrEventNotFound
	}
	return event, nil
}

func (s *EventServiceImpl) GetDetail(ctx context.Context, viewer model.Viewer, id int) (*model.EventDetail, error) {
	event, err := s.GetPublished(ctx, id)
	if err != nil {
		return nil, err
	}

	accepted, err := s.participationRepo.CountAccepted(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	detail := &model.EventDetail{
		Event:          event,
		OrganizerName:  event.Organizer.DisplayName(),
		AvailableSpots: event.AvailableSpots(accepted),
		IsAvailable:    event.IsAvailable(s.clock.now(), accepted),
		IsOrganizer:    event.IsOrganizedBy(viewer.UserID),
	}

	if viewer.Authenticated() {
		p, err := s.participationRepo.FindByEventAndParticipant(ctx, event.ID, viewer.UserID)
		switch {
		case errors.Is(err, apperrors.ErrParticipationNotFound):
		case err != nil:
			return nil, err
		default:
			status := p.Status
			detail.ParticipationStatus = &status
			detail.IsParticipating = status == model.ParticipationStatusAccepted
		}
	}

	return detail, nil
}

func (s *EventServiceImpl) Create(ctx context.Context, viewer model.Viewer, input model.CreateEventInput) (*model.Event, error) {
	if !viewer.Authenticated() {
		return nil, apperrors.ErrUnauthorized
	}

	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.StartAt) == "" || strings.TrimSpace(input.EndAt) == "" {
		return nil, apperrors.NewValidationError("title", "validation.required_fields")
	}

	start, err := model.ParseLocalDateTime(input.StartAt, s.loc)
	if err != nil {
		return nil, err
	}
	end, err := model.ParseLocalDateTime(input.EndAt, s.loc)
	if err != nil {
		return nil, err
	}

	maxParticipants := model.DefaultMaxParticipants
	if input.MaxParticipants != nil {
		maxParticipants = *input.MaxParticipants
	}
	status := model.EventStatusPublished
	if input.Status != nil {
		status = *input.Status
	}

	event := &model.Event{
		EventID:         uuid.New(),
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Location:        strings.TrimSpace(input.Location),
		StartAt:         start.UTC(),
		EndAt:           end.UTC(),
		MaxParticipants: maxParticipants,
		OrganizerID:     viewer.UserID,
		Status:          status,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	organizer, err := s.userRepo.FindByID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	created.Organizer = organizer

	s.invalidateFeed(ctx)
	return created, nil
}

func (s *EventServiceImpl) toUpdateParams(input model.UpdateEventInput) (model.UpdateEventParams, error) {
	params := model.UpdateEventParams{
		Title:           input.Title,
		Description:     input.Description,
		Location:        input.Location,
		MaxParticipants: input.MaxParticipants,
		Status:          input.Status,
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		params.Title = &title
	}
	if input.StartAt != nil {
		start, err := model.ParseLocalDateTime(*input.StartAt, s.loc)
		if err != nil {
			return params, err
		}
		start = start.UTC()
		params.StartAt = &start
	}
	if input.EndAt != nil {
		end, err := model.ParseLocalDateTime(*input.EndAt, s.loc)
		if err != nil {
			return params, err
		}
		end = end.UTC()
		params.EndAt = &end
	}
	return params, nil
}

func (s *EventServiceImpl) Update(ctx context.Context, viewer model.Viewer, id int, input model.UpdateEventInput) (*model.Event, error) {
	if !viewer.Authenticated() {
		return nil, apperrors.ErrUnauthorized
	}

	params, err := s.toUpdateParams(input)
	if err != nil {
		return nil, err
	}
	if params.IsEmpty() {
		return nil, apperrors.ErrInvalidInput
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.IsOrganizedBy(viewer.UserID) {
		return nil, apperrors.ErrNotOrganizer
	}

	// 以合併後的結果驗證，確保結束時間仍晚於開始時間
	merged := params.Apply(*event)
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, event.ID, params)
	if err != nil {
		return nil, err
	}
	updated.Organizer = event.Organizer

	s.invalidateFeed(ctx)
	return updated, nil
}

func (s *EventServiceImpl) Delete(ctx context.Context, viewer model.Viewer, id int) error {
	if !viewer.Authenticated() {
		return apperrors.ErrUnauthorized
	}

	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		event, err := s.repo.FindByIDWithLock(ctx, tx, id)
		if err != nil {
			return err
		}
		if !event.IsOrganizedBy(viewer.UserID) {
			return apperrors.ErrNotOrganizer
		}

		removed, err := s.repo.Delete(ctx, tx, event.ID)
		if err != nil {
			return err
		}

		logger.WithComponent("service").Info("event deleted",
			zap.Int("event_id", event.ID),
			zap.Int64("participations_removed", removed),
		)
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateFeed(ctx)
	return nil
}

// invalidateFeed 失敗只記錄，快取最晚在 TTL 後過期
func (s *EventServiceImpl) invalidateFeed(ctx context.Context) {
	if err := s.feedCache.Invalidate(ctx); err != nil {
		logger.WithComponent("service").Warn("feed cache invalidate failed", zap.Error(err))
	}
}
