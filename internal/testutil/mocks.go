package testutil

import (
	"context"

	"promptbot/internal/domain"
	"promptbot/internal/platform"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock for platform.Client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Channel(ctx context.Context, channelID string) (platform.Channel, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(platform.Channel), args.Error(1)
}

// MockChannel is a mock for platform.Channel
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockChannel) SendMessage(ctx context.Context, msg domain.PromptMessage) (platform.Message, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(platform.Message), args.Error(1)
}

func (m *MockChannel) EditMessage(ctx context.Context, messageID string, msg domain.PromptMessage) error {
	args := m.Called(ctx, messageID, msg)
	return args.Error(0)
}

func (m *MockChannel) DeleteMessage(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

// MockInteraction is a mock for platform.Interaction
type MockInteraction struct {
	mock.Mock
}

func (m *MockInteraction) MessageID() string {
	return m.Called().String(0)
}

func (m *MockInteraction) ChannelID() string {
	return m.Called().String(0)
}

func (m *MockInteraction) CustomID() string {
	return m.Called().String(0)
}

func (m *MockInteraction) User() domain.User {
	return m.Called().Get(0).(domain.User)
}

func (m *MockInteraction) Defer(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockInteraction) Respond(ctx context.Context, msg domain.PromptMessage, ephemeral bool) error {
	return m.Called(ctx, msg, ephemeral).Error(0)
}

func (m *MockInteraction) EditOriginal(ctx context.Context, msg domain.PromptMessage) error {
	return m.Called(ctx, msg).Error(0)
}

// MockPromptLogRepository is a mock for repository.PromptLogRepository
type MockPromptLogRepository struct {
	mock.Mock
}

func (m *MockPromptLogRepository) SaveEvent(ctx context.Context, event domain.PromptEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPromptLogRepository) ListEvents(ctx context.Context, channelID string, limit, offset int) ([]domain.PromptEvent, error) {
	args := m.Called(ctx, channelID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PromptEvent), args.Error(1)
}

func (m *MockPromptLogRepository) CountEvents(ctx context.Context, channelID string) (int, error) {
	args := m.Called(ctx, channelID)
	return args.Int(0), args.Error(1)
}

func (m *MockPromptLogRepository) CleanOldEvents(ctx context.Context, days int) error {
	args := m.Called(ctx, days)
	return args.Error(0)
}

// MockRecorder is a mock for the prompt history recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, event domain.PromptEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
