package mocks

import (
	"context"

	"go-gin-event-calendar/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type ParticipationRepositoryMock struct {
	mock.Mock
}

func NewParticipationRepositoryMock() *ParticipationRepositoryMock {
	return &ParticipationRepositoryMock{}
}

func (m *ParticipationRepositoryMock) participation(args mock.Arguments) (*model.Participation, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Participation), args.Error(1)
}

func (m *ParticipationRepositoryMock) FindByID(ctx context.Context, id int) (*model.Participation, error) {
	return m.participation(m.Called(ctx, id))
}

func (m *ParticipationRepositoryMock) FindByEventAndParticipant(ctx context.Context, eventID, participantID int) (*model.Participation, error) {
	return m.participation(m.Called(ctx, eventID, participantID))
}

func (m *ParticipationRepositoryMock) ListByEventID(ctx context.Context, eventID int) ([]*model.Participation, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Participation), args.Error(1)
}

func (m *ParticipationRepositoryMock) CountAccepted(ctx context.Context, eventID int) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *ParticipationRepositoryMock) Create(ctx context.Context, tx pgx.Tx, participation *model.Participation) (*model.Participation, error) {
	return m.participation(m.Called(ctx, tx, participation))
}

func (m *ParticipationRepositoryMock) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Participation, error) {
	return m.participation(m.Called(ctx, tx, id))
}

func (m *ParticipationRepositoryMock) FindByEventAndParticipantWithLock(ctx context.Context, tx pgx.Tx, eventID, participantID int) (*model.Participation, error) {
	return m.participation(m.Called(ctx, tx, eventID, participantID))
}

func (m *ParticipationRepositoryMock) CountAcceptedWithTx(ctx context.Context, tx pgx.Tx, eventID int) (int, error) {
	args := m.Called(ctx, tx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *ParticipationRepositoryMock) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.ParticipationStatus) (*model.Participation, error) {
	return m.participation(m.Called(ctx, tx, id, status))
}
