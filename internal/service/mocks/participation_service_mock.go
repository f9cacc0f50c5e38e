package mocks

import (
	"context"

	"go-gin-event-calendar/internal/model"

	"github.com/stretchr/testify/mock"
)

type ParticipationServiceMock struct {
	mock.Mock
}

func NewParticipationServiceMock() *ParticipationServiceMock {
	return &ParticipationServiceMock{}
}

func (m *ParticipationServiceMock) result(args mock.Arguments) (*model.ParticipationResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParticipationResult), args.Error(1)
}

func (m *ParticipationServiceMock) Request(ctx context.Context, viewer model.Viewer, eventID int) (*model.ParticipationResult, error) {
	return m.result(m.Called(ctx, viewer, eventID))
}

func (m *ParticipationServiceMock) Cancel(ctx context.Context, viewer model.Viewer, eventID int) (*model.ParticipationResult, error) {
	return m.result(m.Called(ctx, viewer, eventID))
}

func (m *ParticipationServiceMock) Accept(ctx context.Context, viewer model.Viewer, participationID int) (*model.ParticipationResult, error) {
	return m.result(m.Called(ctx, viewer, participationID))
}

func (m *ParticipationServiceMock) Reject(ctx context.Context, viewer model.Viewer, participationID int) (*model.ParticipationResult, error) {
	return m.result(m.Called(ctx, viewer, participationID))
}

func (m *ParticipationServiceMock) ListForEvent(ctx context.Context, viewer model.Viewer, eventID int) ([]*model.Participation, error) {
	args := m.Called(ctx, viewer, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Participation), args.Error(1)
}
