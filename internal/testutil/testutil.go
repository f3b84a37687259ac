package testutil

import (
	"time"

	"promptbot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a human test user
func NewTestUser(id string, roleIDs ...string) domain.User {
	return domain.User{
		ID:      id,
		Name:    "user-" + id,
		RoleIDs: roleIDs,
	}
}

// NewTestEvent creates a history event
func NewTestEvent(id int64, channelID string, outcome domain.Outcome, createdAt time.Time) domain.PromptEvent {
	return domain.PromptEvent{
		ID:        id,
		ChannelID: channelID,
		MessageID: "m-" + channelID,
		UserID:    "u-1",
		Kind:      "confirmation",
		Outcome:   outcome,
		Timeout:   time.Minute,
		CreatedAt: createdAt,
	}
}

// NewMockInteraction creates an interaction mock with its getters stubbed
func NewMockInteraction(channelID, messageID, customID string, user domain.User) *MockInteraction {
	in := new(MockInteraction)
	in.On("ChannelID").Return(channelID).Maybe()
	in.On("MessageID").Return(messageID).Maybe()
	in.On("CustomID").Return(customID).Maybe()
	in.On("User").Return(user).Maybe()
	return in
}

// NewMockChannel creates a channel mock that reports id
func NewMockChannel(id string) *MockChannel {
	ch := new(MockChannel)
	ch.On("ID").Return(id).Maybe()
	return ch
}
