package mocks

import (
	"context"

	"go-gin-event-calendar/internal/model"

	"github.com/stretchr/testify/mock"
)

type EventServiceMock struct {
	mock.Mock
}

func NewEventServiceMock() *EventServiceMock {
	return &EventServiceMock{}
}

func (m *EventServiceMock) ListFeed(ctx context.Context, viewer model.Viewer, q model.FeedQuery) ([]model.FeedItem, error) {
	args := m.Called(ctx, viewer, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FeedItem), args.Error(1)
}

func (m *EventServiceMock) GetDetail(ctx context.Context, viewer model.Viewer, id int) (*model.EventDetail, error) {
	args := m.Called(ctx, viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventDetail), args.Error(1)
}

func (m *EventServiceMock) GetPublished(ctx context.Context, id int) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) Create(ctx context.Context, viewer model.Viewer, input model.CreateEventInput) (*model.Event, error) {
	args := m.Called(ctx, viewer, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) Update(ctx context.Context, viewer model.Viewer, id int, input model.UpdateEventInput) (*model.Event, error) {
	args := m.Called(ctx, viewer, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) Delete(ctx context.Context, viewer model.Viewer, id int) error {
	args := m.Called(ctx, viewer, id)
	return args.Error(0)
}
