package service

import (
	"context"
	"errors"

	"go-gin-event-calendar/internal/cache"
	"go-gin-event-calendar/internal/model"
	"go-gin-event-calendar/internal/queue"
	"go-gin-event-calendar/internal/repository"
	apperrors "go-gin-event-calendar/pkg/app_errors"
	"go-gin-event-calendar/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ParticipationService interface {
	// Request 報名活動：檢查名額與既有紀錄，名額檢查與寫入在同一把活動列鎖內完成
	Request(ctx context.Context, viewer model.Viewer, eventID int) (*model.ParticipationResult, error)
	// Cancel 參加者取消自己的報名
	Cancel(ctx context.Context, viewer model.Viewer, eventID int) (*model.ParticipationResult, error)
	// Accept / Reject 主辦人審核報名
	Accept(ctx context.Context, viewer model.Viewer, participationID int) (*model.ParticipationResult, error)
	Reject(ctx context.Context, viewer model.Viewer, participationID int) (*model.ParticipationResult, error)
	ListForEvent(ctx context.Context, viewer model.Viewer, eventID int) ([]*model.Participation, error)
}

type ParticipationServiceImpl struct {
	txManager   repository.TxManager
	eventRepo   repository.EventRepository
	repo        repository.ParticipationRepository
	noticeQueue queue.NoticeQueue
	feedCache   cache.FeedCache
	clock       Clock
}

func NewParticipationService(
	txManager repository.TxManager,
	eventRepo repository.EventRepository,
	repo repository.ParticipationRepository,
	noticeQueue queue.NoticeQueue,
	feedCache cache.FeedCache,
	clock Clock,
) ParticipationService {
	return &ParticipationServiceImpl{
		txManager:   txManager,
		eventRepo:   eventRepo,
		repo:        repo,
		noticeQueue: noticeQueue,
		feedCache:   feedCache,
		clock:       clock,
	}
}

func (s *ParticipationServiceImpl) Request(ctx context.Context, viewer model.Viewer, eventID int) (*model.ParticipationResult, error) {
	if !viewer.Authenticated() {
		return nil, apperrors.ErrUnauthorized
	}

	var event *model.Event
	var result *model.ParticipationResult
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		// 1. 鎖住活動列，同一活動的報名在此排隊
		event, err = s.eventRepo.FindByIDWithLock(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if event.Status != model.EventStatusPublished {
			return apperrors.ErrEventNotFound
		}
		if event.IsOrganizedBy(viewer.UserID) {
			return apperrors.ErrForbiddenSelfParticipation
		}

		// 2. 持鎖計算名額
		accepted, err := s.repo.CountAcceptedWithTx(ctx, tx, event.ID)
		if err != nil {
			return err
		}
		if !event.IsAvailable(s.clock.now(), accepted) {
			return apperrors.ErrEventNotAvailable
		}

		// 3. 依既有紀錄決定結果
		existing, err := s.repo.FindByEventAndParticipantWithLock(ctx, tx, event.ID, viewer.UserID)
		if errors.Is(err, apperrors.ErrParticipationNotFound) {
			created, err := s.repo.Create(ctx, tx, &model.Participation{
				EventID:       event.ID,
				ParticipantID: viewer.UserID,
				Status:        model.ParticipationStatusAccepted,
			})
			if err != nil {
				return err
			}
			result = newResult(created, model.OutcomeCreated)
			return nil
		}
		if err != nil {
			return err
		}

		switch existing.Status {
		case model.ParticipationStatusAccepted:
			result = newResult(existing, model.OutcomeAlreadyParticipating)
		case model.ParticipationStatusPending:
			result = newResult(existing, model.OutcomeAlreadyPending)
		case model.ParticipationStatusRejected:
			result = newResult(existing, model.OutcomePreviouslyRejected)
		case model.ParticipationStatusCancelled:
			// 名額已在同一把鎖內確認
			updated, err := s.repo.UpdateStatus(ctx, tx, existing.ID, model.ParticipationStatusAccepted)
			if err != nil {
				return err
			}
			result = newResult(updated, model.OutcomeReactivated)
		default:
			result = newResult(existing, model.OutcomeUnchanged)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterChange(ctx, event, result)
	return result, nil
}

func (s *ParticipationServiceImpl) Cancel(ctx context.Context, viewer model.Viewer, eventID int) (*model.ParticipationResult, error) {
	if !viewer.Authenticated() {
		return nil, apperrors.ErrUnauthorized
	}

	var event *model.Event
	var result *model.ParticipationResult
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		event, err = s.eventRepo.FindByIDWithLock(ctx, tx, eventID)
		if err != nil {
			return err
		}

		existing, err := s.repo.FindByEventAndParticipantWithLock(ctx, tx, event.ID, viewer.UserID)
		if err != nil {
			return err
		}
		if existing.Status == model.ParticipationStatusCancelled {
			result = newResult(existing, model.OutcomeUnchanged)
			return nil
		}
		if !existing.Status.CanTransitionTo(model.ParticipationStatusCancelled) {
			return apperrors.ErrInvalidStatusTransition
		}

		updated, err := s.repo.UpdateStatus(ctx, tx, existing.ID, model.ParticipationStatusCancelled)
		if err != nil {
			return err
		}
		result = newResult(updated, model.OutcomeCancelled)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterChange(ctx, event, result)
	return result, nil
}

func (s *ParticipationServiceImpl) Accept(ctx context.Context, viewer model.Viewer, participationID int) (*model.ParticipationResult, error) {
	return s.moderate(ctx, viewer, participationID, model.ParticipationStatusAccepted, model.OutcomeAccepted)
}

func (s *ParticipationServiceImpl) Reject(ctx context.Context, viewer model.Viewer, participationID int) (*model.ParticipationResult, error) {
	return s.moderate(ctx, viewer, participationID, model.ParticipationStatusRejected, model.OutcomeRejected)
}

// moderate 先鎖活動再鎖報名紀錄，與 Request 的上鎖順序一致
func (s *ParticipationServiceImpl) moderate(ctx context.Context, viewer model.Viewer, participationID int, target model.ParticipationStatus, outcome model.ParticipationOutcome) (*model.ParticipationResult, error) {
	if !viewer.Authenticated() {
		return nil, apperrors.ErrUnauthorized
	}

	current, err := s.repo.FindByID(ctx, participationID)
	if err != nil {
		return nil, err
	}

	var event *model.Event
	var result *model.ParticipationResult
	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		event, err = s.eventRepo.FindByIDWithLock(ctx, tx, current.EventID)
		if err != nil {
			return err
		}
		if !event.IsOrganizedBy(viewer.UserID) {
			return apperrors.ErrNotOrganizer
		}

		p, err := s.repo.FindByIDWithLock(ctx, tx, participationID)
		if err != nil {
			return err
		}
		if p.Status == target {
			result = newResult(p, model.OutcomeUnchanged)
			return nil
		}
		// 已取消的報名只能由參加者本人重新報名
		if p.Status == model.ParticipationStatusCancelled || !p.Status.CanTransitionTo(target) {
			return apperrors.ErrInvalidStatusTransition
		}

		if target == model.ParticipationStatusAccepted {
			accepted, err := s.repo.CountAcceptedWithTx(ctx, tx, event.ID)
			if err != nil {
				return err
			}
			if !event.IsAvailable(s.clock.now(), accepted) {
				return apperrors.ErrEventNotAvailable
			}
		}

		updated, err := s.repo.UpdateStatus(ctx, tx, p.ID, target)
		if err != nil {
			return err
		}
		result = newResult(updated, outcome)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterChange(ctx, event, result)
	return result, nil
}

func (s *ParticipationServiceImpl) ListForEvent(ctx context.Context, viewer model.Viewer, eventID int) ([]*model.Participation, error) {
	if !viewer.Authenticated() {
		return nil, apperrors.ErrUnauthorized
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsOrganizedBy(viewer.UserID) {
		return nil, apperrors.ErrNotOrganizer
	}
	return s.repo.ListByEventID(ctx, event.ID)
}

func newResult(p *model.Participation, outcome model.ParticipationOutcome) *model.ParticipationResult {
	return &model.ParticipationResult{
		Participation: p,
		Status:        p.Status,
		Outcome:       outcome,
	}
}

// afterChange commit 之後才發通知與清快取；失敗只記錄，不影響已寫入的結果
func (s *ParticipationServiceImpl) afterChange(ctx context.Context, event *model.Event, result *model.ParticipationResult) {
	kind, ok := result.Outcome.NoticeKind()
	if !ok {
		return
	}
	log := logger.WithComponent("service").With(
		zap.Int("event_id", event.ID),
		zap.Int("participation_id", result.Participation.ID),
		zap.String("outcome", string(result.Outcome)),
	)

	if err := s.feedCache.Invalidate(ctx); err != nil {
		log.Warn("feed cache invalidate failed", zap.Error(err))
	}

	notice := &model.ParticipationNotice{
		RequestID:       uuid.New().String(),
		ParticipationID: result.Participation.ID,
		EventID:         event.ID,
		EventTitle:      event.Title,
		ParticipantID:   result.Participation.ParticipantID,
		OrganizerID:     event.OrganizerID,
		Kind:            kind,
		OccurredAt:      s.clock.now(),
	}
	if err := s.noticeQueue.PublishNotice(ctx, notice); err != nil {
		log.Error("failed to publish participation notice", zap.Error(err))
		return
	}
	log.Info("participation changed")
}
