package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-gin-event-calendar/internal/i18n"
	"go-gin-event-calendar/internal/model"
	"go-gin-event-calendar/internal/repository"
	apperrors "go-gin-event-calendar/pkg/app_errors"
	"go-gin-event-calendar/pkg/logger"

	"go.uber.org/zap"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

type NotificationService interface {
	// Record 把隊列中的通知寫入收件人的通知列表；重複投遞的訊息會被忽略
	Record(ctx context.Context, notice *model.ParticipationNotice) error
	ListForViewer(ctx context.Context, viewer model.Viewer, limit int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, viewer model.Viewer, id int) error
	// PurgeRead 刪除已讀超過 retention 的通知
	PurgeRead(ctx context.Context, retention time.Duration) (int64, error)
}

type NotificationServiceImpl struct {
	repo      repository.NotificationRepository
	userRepo  repository.UserRepository
	localizer i18n.Localizer
	locale    string
	clock     Clock
}

func NewNotificationService(
	repo repository.NotificationRepository,
	userRepo repository.UserRepository,
	localizer i18n.Localizer,
	locale string,
	clock Clock,
) NotificationService {
	return &NotificationServiceImpl{
		repo:      repo,
		userRepo:  userRepo,
		localizer: localizer,
		locale:    locale,
		clock:     clock,
	}
}

func (s *NotificationServiceImpl) Record(ctx context.Context, notice *model.ParticipationNotice) error {
	participant := fmt.Sprintf("#%d", notice.ParticipantID)
	user, err := s.userRepo.FindByID(ctx, notice.ParticipantID)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
	case err != nil:
		return err
	default:
		participant = user.DisplayName()
	}

	message := s.localizer.T(s.locale, "notification."+string(notice.Kind), map[string]any{
		"Participant": participant,
		"Event":       notice.EventTitle,
	})

	created, err := s.repo.Create(ctx, &model.Notification{
		RequestID: notice.RequestID,
		UserID:    notice.Recipient(),
		EventID:   notice.EventID,
		Kind:      notice.Kind,
		Message:   message,
	})
	if err != nil {
		return err
	}
	if created == nil {
		logger.WithComponent("service").Info("duplicate notice ignored", zap.String("request_id", notice.RequestID))
	}
	return nil
}

func (s *NotificationServiceImpl) ListForViewer(ctx context.Context, viewer model.Viewer, limit int) ([]*model.Notification, error) {
	if !viewer.Authenticated() {
		return nil, apperrors.ErrUnauthorized
	}
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	return s.repo.ListByUserID(ctx, viewer.UserID, limit)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, viewer model.Viewer, id int) error {
	if !viewer.Authenticated() {
		return apperrors.ErrUnauthorized
	}
	return s.repo.MarkRead(ctx, id, viewer.UserID, s.clock.now())
}

func (s *NotificationServiceImpl) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.clock.now().Add(-retention)
	n, err := s.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	logger.WithComponent("service").Info("read notifications purged",
		zap.Int64("deleted", n),
		zap.Time("cutoff", cutoff),
	)
	return n, nil
}
