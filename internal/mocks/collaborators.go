package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/internal/notify"
)

type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) Claim(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuard) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Channel() string {
	return notify.ChannelEmail
}

func (m *MockNotifier) Send(ctx context.Context, notice notify.Notice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

type MockConfigProvider struct {
	mock.Mock
}

func (m *MockConfigProvider) Settings(ctx context.Context) (domain.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Settings), args.Error(1)
}
