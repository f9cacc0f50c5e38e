package mocks

import (
	"context"
	"time"

	"go-gin-event-calendar/internal/model"

	"github.com/stretchr/testify/mock"
)

type NotificationServiceMock struct {
	mock.Mock
}

func NewNotificationServiceMock() *NotificationServiceMock {
	return &NotificationServiceMock{}
}

func (m *NotificationServiceMock) Record(ctx context.Context, notice *model.ParticipationNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *NotificationServiceMock) ListForViewer(ctx context.Context, viewer model.Viewer, limit int) ([]*model.Notification, error) {
	args := m.Called(ctx, viewer, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Notification), args.Error(1)
}

func (m *NotificationServiceMock) MarkRead(ctx context.Context, viewer model.Viewer, id int) error {
	args := m.Called(ctx, viewer, id)
	return args.Error(0)
}

func (m *NotificationServiceMock) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	args := m.Called(ctx, retention)
	return args.Get(0).(int64), args.Error(1)
}
