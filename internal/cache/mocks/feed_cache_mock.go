package mocks

import (
	"context"

	"go-gin-event-calendar/internal/model"

	"github.com/stretchr/testify/mock"
)

type FeedCacheMock struct {
	mock.Mock
}

func NewFeedCacheMock() *FeedCacheMock {
	return &FeedCacheMock{}
}

func (m *FeedCacheMock) Get(ctx context.Context, key string) ([]*model.FeedRow, int64, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Bool(2), args.Error(3)
	}
	return args.Get(0).([]*model.FeedRow), args.Get(1).(int64), args.Bool(2), args.Error(3)
}

func (m *FeedCacheMock) Set(ctx context.Context, version int64, key string, rows []*model.FeedRow) error {
	args := m.Called(ctx, version, key, rows)
	return args.Error(0)
}

func (m *FeedCacheMock) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
