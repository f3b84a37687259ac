package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"promptbot/internal/domain"
	"promptbot/internal/platform"
	"promptbot/internal/prompt"
	"promptbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

func newTestService(client platform.Client, history Recorder) *PromptService {
	return NewPromptService(client, Options{
		DefaultTimeout:  time.Minute,
		FinalizeTimeout: time.Second,
		History:         history,
	}, testutil.NewTestLogger())
}

func countingMessage(counter *int32, msg domain.PromptMessage) prompt.MessageFunc {
	return func() domain.PromptMessage {
		atomic.AddInt32(counter, 1)
		return msg
	}
}

func newConfirmation(t *testing.T, action prompt.ConfirmationFunc, opts ...prompt.Option) *prompt.Confirmation {
	t.Helper()
	if action == nil {
		action = func(context.Context, platform.Interaction, bool) (bool, error) { return true, nil }
	}
	p, err := prompt.NewConfirmation(action, opts...)
	require.NoError(t, err)
	return p
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("prompt lifecycle did not finish")
	}
}

func testMessage(id string) platform.Message {
	return platform.Message{ChannelID: "c1", ID: id, UserID: "u1"}
}

func TestPromptService_Register(t *testing.T) {
	t.Run("duplicate message id", func(t *testing.T) {
		service := newTestService(new(testutil.MockClient), nil)
		p := newConfirmation(t, nil, prompt.WithExpireMessage(nil))

		_, err := service.Register(testMessage("m1"), p, time.Minute)
		require.NoError(t, err)

		_, err = service.Register(testMessage("m1"), p, time.Minute)
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
		assert.Equal(t, 1, service.Len())
	})

	t.Run("nil prompt", func(t *testing.T) {
		service := newTestService(new(testutil.MockClient), nil)

		_, err := service.Register(testMessage("m1"), nil, time.Minute)
		assert.ErrorIs(t, err, ErrNilPrompt)
	})

	t.Run("closed service", func(t *testing.T) {
		service := newTestService(new(testutil.MockClient), nil)
		require.NoError(t, service.Close(context.Background()))

		_, err := service.Register(testMessage("m1"), newConfirmation(t, nil), time.Minute)
		assert.ErrorIs(t, err, ErrServiceClosed)
	})

	t.Run("zero timeout uses default", func(t *testing.T) {
		service := newTestService(new(testutil.MockClient), nil)

		_, err := service.Register(testMessage("m1"), newConfirmation(t, nil), 0)
		require.NoError(t, err)

		keys := service.Keys()
		require.Len(t, keys, 1)
		assert.Equal(t, time.Minute, keys[0].Timeout)
		assert.Equal(t, "u1", keys[0].UserID)
	})
}

func TestPromptService_Expiry(t *testing.T) {
	client := new(testutil.MockClient)
	channel := testutil.NewMockChannel("c1")
	client.On("Channel", mock.Anything, "c1").Return(channel, nil)
	channel.On("EditMessage", mock.Anything, "m1", mock.MatchedBy(func(msg domain.PromptMessage) bool {
		return msg.Content == "expired" && msg.Components != nil && msg.Components.IsEmpty()
	})).Return(nil).Once()

	var expired, cancelled int32
	p := newConfirmation(t, nil,
		prompt.WithExpireMessage(countingMessage(&expired, domain.NewMessage().WithContent("expired").Build())),
		prompt.WithCancelMessage(countingMessage(&cancelled, domain.NewMessage().WithContent("cancelled").Build())),
	)

	service := newTestService(client, nil)

	timeout := 200 * time.Millisecond
	start := time.Now()
	done, err := service.Register(testMessage("m1"), p, timeout)
	require.NoError(t, err)

	time.Sleep(timeout / 2)
	assert.True(t, service.Has("m1"))
	assert.Equal(t, int32(0), atomic.LoadInt32(&expired))

	waitDone(t, done)

	assert.GreaterOrEqual(t, time.Since(start), timeout)
	assert.False(t, service.Has("m1"))
	assert.Equal(t, 0, service.Len())
	assert.Equal(t, int32(1), atomic.LoadInt32(&expired))
	assert.Equal(t, int32(0), atomic.LoadInt32(&cancelled))
	channel.AssertExpectations(t)

	removed, err := service.Unregister(context.Background(), "m1", true)
	assert.NoError(t, err)
	assert.False(t, removed)
}

func TestPromptService_ExpiryWithoutMessage(t *testing.T) {
	client := new(testutil.MockClient)
	service := newTestService(client, nil)

	done, err := service.Register(testMessage("m1"), newConfirmation(t, nil, prompt.WithExpireMessage(nil)), 20*time.Millisecond)
	require.NoError(t, err)

	waitDone(t, done)

	assert.False(t, service.Has("m1"))
	client.AssertNotCalled(t, "Channel", mock.Anything, mock.Anything)
}

func TestPromptService_ExpiryDeletesMessage(t *testing.T) {
	client := new(testutil.MockClient)
	channel := testutil.NewMockChannel("c1")
	client.On("Channel", mock.Anything, "c1").Return(channel, nil)
	channel.On("DeleteMessage", mock.Anything, "m1").Return(nil).Once()

	p := newConfirmation(t, nil, prompt.WithExpireMessage(prompt.StaticMessage(domain.NewMessage().WithDelete(true).Build())))
	service := newTestService(client, nil)

	done, err := service.Register(testMessage("m1"), p, 20*time.Millisecond)
	require.NoError(t, err)
	waitDone(t, done)

	channel.AssertExpectations(t)
	channel.AssertNotCalled(t, "EditMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestPromptService_ExpiryChannelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "channel gone", err: platform.ErrChannelNotFound},
		{name: "not a message channel", err: platform.ErrNotMessageChannel},
		{name: "platform failure", err: errors.New("gateway timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(testutil.MockClient)
			client.On("Channel", mock.Anything, "c1").Return(nil, tt.err)

			history := new(testutil.MockRecorder)
			history.On("Record", mock.Anything, mock.MatchedBy(func(e domain.PromptEvent) bool {
				return e.Outcome == domain.OutcomeExpired
			})).Return(nil).Once()

			service := newTestService(client, history)

			done, err := service.Register(testMessage("m1"), newConfirmation(t, nil), 20*time.Millisecond)
			require.NoError(t, err)
			waitDone(t, done)

			assert.False(t, service.Has("m1"))
			client.AssertExpectations(t)
			history.AssertExpectations(t)
		})
	}
}

func TestPromptService_UnregisterStop(t *testing.T) {
	client := new(testutil.MockClient)
	channel := testutil.NewMockChannel("c1")
	client.On("Channel", mock.Anything, "c1").Return(channel, nil)
	channel.On("EditMessage", mock.Anything, "m1", mock.MatchedBy(func(msg domain.PromptMessage) bool {
		return msg.Content == "cancelled"
	})).Return(nil).Once()

	var expired, cancelled int32
	p := newConfirmation(t, nil,
		prompt.WithExpireMessage(countingMessage(&expired, domain.NewMessage().WithContent("expired").Build())),
		prompt.WithCancelMessage(countingMessage(&cancelled, domain.NewMessage().WithContent("cancelled").Build())),
	)

	history := new(testutil.MockRecorder)
	history.On("Record", mock.Anything, mock.MatchedBy(func(e domain.PromptEvent) bool {
		return e.Outcome == domain.OutcomeCancelled && e.MessageID == "m1" && e.Kind == "confirmation"
	})).Return(nil).Once()

	service := newTestService(client, history)
	done, err := service.Register(testMessage("m1"), p, time.Minute)
	require.NoError(t, err)

	removed, err := service.Unregister(context.Background(), "m1", true)
	require.NoError(t, err)
	assert.True(t, removed)

	// Dispose joined the work, so the lifecycle is already over
	waitDone(t, done)

	assert.False(t, service.Has("m1"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&cancelled))
	assert.Equal(t, int32(0), atomic.LoadInt32(&expired))
	channel.AssertExpectations(t)
	history.AssertExpectations(t)
}

func TestPromptService_UnregisterTwice(t *testing.T) {
	client := new(testutil.MockClient)
	var cancelled int32
	p := newConfirmation(t, nil, prompt.WithCancelMessage(countingMessage(&cancelled, domain.PromptMessage{})))

	service := newTestService(client, nil)
	_, err := service.Register(testMessage("m1"), p, time.Minute)
	require.NoError(t, err)

	removed, err := service.Unregister(context.Background(), "m1", false)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = service.Unregister(context.Background(), "m1", true)
	require.NoError(t, err)
	assert.False(t, removed)

	assert.Equal(t, int32(0), atomic.LoadInt32(&cancelled))
	client.AssertNotCalled(t, "Channel", mock.Anything, mock.Anything)
}

func TestPromptService_UnregisterCancelsTimer(t *testing.T) {
	client := new(testutil.MockClient)
	var expired int32
	p := newConfirmation(t, nil, prompt.WithExpireMessage(countingMessage(&expired, domain.PromptMessage{})))

	service := newTestService(client, nil)
	done, err := service.Register(testMessage("m1"), p, 50*time.Millisecond)
	require.NoError(t, err)

	_, err = service.Unregister(context.Background(), "m1", false)
	require.NoError(t, err)
	waitDone(t, done)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&expired))
	client.AssertNotCalled(t, "Channel", mock.Anything, mock.Anything)
}

func TestPromptService_Execute(t *testing.T) {
	user := testutil.NewTestUser("u1")

	tests := []struct {
		name             string
		register         bool
		opts             []prompt.Option
		action           prompt.ConfirmationFunc
		customID         string
		user             domain.User
		setup            func(in *testutil.MockInteraction)
		expectedStatus   domain.PromptStatus
		expectedMessage  string
		expectRegistered bool
	}{
		{
			name:            "unregistered message",
			customID:        prompt.TrueKey,
			user:            user,
			expectedStatus:  domain.StatusUnregisteredMessage,
			expectedMessage: "m1 is not registered",
		},
		{
			name:     "invalid user gets ephemeral reply",
			register: true,
			opts:     []prompt.Option{prompt.WithUsers("owner")},
			customID: prompt.TrueKey,
			user:     user,
			setup: func(in *testutil.MockInteraction) {
				in.On("Respond", mock.Anything, mock.MatchedBy(func(msg domain.PromptMessage) bool {
					return msg.Content == prompt.DefaultInvalidUserText
				}), true).Return(nil).Once()
			},
			expectedStatus:   domain.StatusInvalidUser,
			expectedMessage:  "u1 is not valid",
			expectRegistered: true,
		},
		{
			name:             "invalid user without message",
			register:         true,
			opts:             []prompt.Option{prompt.WithUsers("owner"), prompt.WithInvalidUserMessage(nil)},
			customID:         prompt.TrueKey,
			user:             user,
			expectedStatus:   domain.StatusInvalidUser,
			expectedMessage:  "u1 is not valid",
			expectRegistered: true,
		},
		{
			name:             "bot is rejected",
			register:         true,
			opts:             []prompt.Option{prompt.WithInvalidUserMessage(nil)},
			customID:         prompt.TrueKey,
			user:             domain.User{ID: "b1", IsBot: true},
			expectedStatus:   domain.StatusInvalidUser,
			expectedMessage:  "b1 is not valid",
			expectRegistered: true,
		},
		{
			name:             "unsupported component",
			register:         true,
			customID:         "maybe",
			user:             user,
			expectedStatus:   domain.StatusUnsupportedComponent,
			expectedMessage:  "maybe is not supported",
			expectRegistered: true,
		},
		{
			name:     "action completes prompt",
			register: true,
			customID: prompt.TrueKey,
			user:     user,
			action: func(context.Context, platform.Interaction, bool) (bool, error) {
				return true, nil
			},
			expectedStatus:   domain.StatusSuccess,
			expectRegistered: false,
		},
		{
			name:     "action keeps prompt",
			register: true,
			customID: prompt.FalseKey,
			user:     user,
			action: func(context.Context, platform.Interaction, bool) (bool, error) {
				return false, nil
			},
			expectedStatus:   domain.StatusSuccess,
			expectRegistered: true,
		},
		{
			name:     "action error",
			register: true,
			customID: prompt.TrueKey,
			user:     user,
			action: func(context.Context, platform.Interaction, bool) (bool, error) {
				return true, errors.New("boom")
			},
			expectedStatus:   domain.StatusException,
			expectedMessage:  "boom",
			expectRegistered: true,
		},
		{
			name:     "action panic",
			register: true,
			customID: prompt.TrueKey,
			user:     user,
			action: func(context.Context, platform.Interaction, bool) (bool, error) {
				panic("kaboom")
			},
			expectedStatus:   domain.StatusException,
			expectedMessage:  "prompt panicked: kaboom",
			expectRegistered: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(new(testutil.MockClient), nil)
			defer service.Close(context.Background())

			if tt.register {
				_, err := service.Register(testMessage("m1"), newConfirmation(t, tt.action, tt.opts...), time.Minute)
				require.NoError(t, err)
			}

			in := testutil.NewMockInteraction("c1", "m1", tt.customID, tt.user)
			if tt.setup != nil {
				tt.setup(in)
			}

			result := service.Execute(context.Background(), in)

			assert.Equal(t, tt.expectedStatus, result.Status)
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, result.Message)
			}
			if tt.expectedStatus == domain.StatusException {
				assert.Error(t, result.Err)
				assert.False(t, result.Unregister)
			}
			assert.Equal(t, tt.expectRegistered, service.Has("m1"))
			in.AssertExpectations(t)
			in.AssertNotCalled(t, "EditOriginal", mock.Anything, mock.Anything)
		})
	}
}

func TestPromptService_ExecuteRecordsCompletion(t *testing.T) {
	history := new(testutil.MockRecorder)
	history.On("Record", mock.Anything, mock.MatchedBy(func(e domain.PromptEvent) bool {
		return e.Outcome == domain.OutcomeCompleted && e.MessageID == "m1" && e.UserID == "u1"
	})).Return(nil).Once()

	var expired int32
	p := newConfirmation(t, nil, prompt.WithExpireMessage(countingMessage(&expired, domain.PromptMessage{})))

	service := newTestService(new(testutil.MockClient), history)
	done, err := service.Register(testMessage("m1"), p, time.Minute)
	require.NoError(t, err)

	in := testutil.NewMockInteraction("c1", "m1", prompt.TrueKey, testutil.NewTestUser("u1"))
	result := service.Execute(context.Background(), in)

	assert.Equal(t, domain.StatusSuccess, result.Status)
	waitDone(t, done)
	assert.Equal(t, int32(0), atomic.LoadInt32(&expired))
	history.AssertExpectations(t)
}

func TestPromptService_ExecutePagination(t *testing.T) {
	pages := []domain.PromptMessage{
		domain.NewMessage().WithContent("one").Build(),
		domain.NewMessage().WithContent("two").Build(),
	}
	p, err := prompt.NewEagerPagination(pages)
	require.NoError(t, err)

	service := newTestService(new(testutil.MockClient), nil)
	defer service.Close(context.Background())

	_, err = service.Register(testMessage("m1"), p, time.Minute)
	require.NoError(t, err)

	in := testutil.NewMockInteraction("c1", "m1", prompt.NextKey, testutil.NewTestUser("u1"))
	in.On("Defer", mock.Anything).Return(nil).Once()
	in.On("EditOriginal", mock.Anything, mock.MatchedBy(func(msg domain.PromptMessage) bool {
		return msg.Content == "two"
	})).Return(nil).Once()

	result := service.Execute(context.Background(), in)

	assert.Equal(t, domain.StatusSuccess, result.Status)
	assert.Equal(t, 1, p.CurrentPage())
	assert.True(t, service.Has("m1"))
	in.AssertExpectations(t)
}

func TestPromptService_UnregisterAllFunc(t *testing.T) {
	client := new(testutil.MockClient)
	channel := testutil.NewMockChannel("c1")
	client.On("Channel", mock.Anything, "c1").Return(channel, nil)
	channel.On("EditMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	service := newTestService(client, nil)
	defer service.Close(context.Background())

	for _, msg := range []platform.Message{
		{ChannelID: "c1", ID: "m1"},
		{ChannelID: "c1", ID: "m2"},
		{ChannelID: "c2", ID: "m3"},
	} {
		_, err := service.Register(msg, newConfirmation(t, nil), time.Minute)
		require.NoError(t, err)
	}

	err := service.UnregisterAllFunc(context.Background(), func(key PromptKey) bool {
		return key.ChannelID == "c1"
	}, true)

	require.NoError(t, err)
	assert.Equal(t, 1, service.Len())
	assert.True(t, service.Has("m3"))
	channel.AssertExpectations(t)
	client.AssertNotCalled(t, "Channel", mock.Anything, "c2")
}

func TestPromptService_UnregisterAll(t *testing.T) {
	history := new(testutil.MockRecorder)
	history.On("Record", mock.Anything, mock.MatchedBy(func(e domain.PromptEvent) bool {
		return e.Outcome == domain.OutcomeDiscarded
	})).Return(nil).Times(3)

	client := new(testutil.MockClient)
	service := newTestService(client, history)

	for _, id := range []string{"m1", "m2", "m3"} {
		_, err := service.Register(testMessage(id), newConfirmation(t, nil), time.Minute)
		require.NoError(t, err)
	}

	require.NoError(t, service.UnregisterAll(context.Background(), false))

	assert.Equal(t, 0, service.Len())
	history.AssertExpectations(t)
	client.AssertNotCalled(t, "Channel", mock.Anything, mock.Anything)
}

func TestPromptService_UnregisterAllAggregatesErrors(t *testing.T) {
	client := new(testutil.MockClient)
	channel := testutil.NewMockChannel("c1")
	client.On("Channel", mock.Anything, "c1").Return(channel, nil)

	// Finalizations block until released so the dispose deadline passes
	release := make(chan struct{})
	channel.On("EditMessage", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).Return(nil)

	service := newTestService(client, nil)
	for _, id := range []string{"m1", "m2"} {
		_, err := service.Register(testMessage(id), newConfirmation(t, nil), time.Minute)
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := service.UnregisterAll(ctx, true)
	close(release)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "m1")
	assert.Contains(t, err.Error(), "m2")
}

func TestPromptService_Send(t *testing.T) {
	t.Run("sends with prompt components and registers", func(t *testing.T) {
		client := new(testutil.MockClient)
		channel := testutil.NewMockChannel("c1")
		client.On("Channel", mock.Anything, "c1").Return(channel, nil)

		p := newConfirmation(t, nil)
		channel.On("SendMessage", mock.Anything, mock.MatchedBy(func(msg domain.PromptMessage) bool {
			return msg.Content == "sure?" && len(msg.Components.Buttons()) == 2
		})).Return(platform.Message{ChannelID: "c1", ID: "m9"}, nil).Once()

		service := newTestService(client, nil)
		defer service.Close(context.Background())

		sent, err := service.Send(context.Background(), "c1", "u1", p, domain.NewMessage().WithContent("sure?").Build(), 0)

		require.NoError(t, err)
		assert.Equal(t, platform.Message{ChannelID: "c1", ID: "m9", UserID: "u1"}, sent)
		assert.True(t, service.Has("m9"))
		channel.AssertExpectations(t)
	})

	t.Run("channel error", func(t *testing.T) {
		client := new(testutil.MockClient)
		client.On("Channel", mock.Anything, "c1").Return(nil, platform.ErrChannelNotFound)

		service := newTestService(client, nil)

		_, err := service.Send(context.Background(), "c1", "u1", newConfirmation(t, nil), domain.PromptMessage{}, 0)

		assert.ErrorIs(t, err, platform.ErrChannelNotFound)
		assert.Equal(t, 0, service.Len())
	})

	t.Run("registration failure removes the buttons", func(t *testing.T) {
		tests := []struct {
			name        string
			editErr     error
			close       bool
			expectedErr error
		}{
			{name: "duplicate message id", expectedErr: ErrAlreadyRegistered},
			{name: "closed service", close: true, expectedErr: ErrServiceClosed},
			{name: "edit failure keeps the registration error", editErr: errors.New("forbidden"), expectedErr: ErrAlreadyRegistered},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				client := new(testutil.MockClient)
				channel := testutil.NewMockChannel("c1")
				client.On("Channel", mock.Anything, "c1").Return(channel, nil)
				channel.On("SendMessage", mock.Anything, mock.Anything).
					Return(platform.Message{ChannelID: "c1", ID: "m1"}, nil).Once()
				channel.On("EditMessage", mock.Anything, "m1", mock.MatchedBy(func(msg domain.PromptMessage) bool {
					return msg.Content == "sure?" && msg.Components != nil && msg.Components.IsEmpty()
				})).Return(tt.editErr).Once()

				service := newTestService(client, nil)
				defer service.Close(context.Background())

				if tt.close {
					require.NoError(t, service.Close(context.Background()))
				} else {
					_, err := service.Register(testMessage("m1"), newConfirmation(t, nil), time.Minute)
					require.NoError(t, err)
				}

				_, err := service.Send(context.Background(), "c1", "u1", newConfirmation(t, nil), domain.NewMessage().WithContent("sure?").Build(), 0)

				assert.ErrorIs(t, err, tt.expectedErr)
				channel.AssertExpectations(t)
			})
		}
	})

	t.Run("send error", func(t *testing.T) {
		client := new(testutil.MockClient)
		channel := testutil.NewMockChannel("c1")
		client.On("Channel", mock.Anything, "c1").Return(channel, nil)
		channel.On("SendMessage", mock.Anything, mock.Anything).Return(platform.Message{}, errors.New("forbidden"))

		service := newTestService(client, nil)

		_, err := service.Send(context.Background(), "c1", "u1", newConfirmation(t, nil), domain.PromptMessage{}, 0)

		assert.Error(t, err)
		assert.Equal(t, 0, service.Len())
	})
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) Record(_ context.Context, event domain.PromptEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[event.MessageID]++
	return nil
}

func TestPromptService_FinalizesOnceUnderRaces(t *testing.T) {
	const total = 200
	ctx := context.Background()

	client := new(testutil.MockClient)
	channel := testutil.NewMockChannel("c1")
	client.On("Channel", mock.Anything, "c1").Return(channel, nil).Maybe()
	channel.On("EditMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	recorder := &countingRecorder{counts: make(map[string]int)}
	service := newTestService(client, recorder)
	defer service.Close(ctx)

	dones := make([]<-chan struct{}, 0, total)
	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		id := fmt.Sprintf("m%d", i)
		done, err := service.Register(testMessage(id), newConfirmation(t, nil), time.Millisecond)
		require.NoError(t, err)
		dones = append(dones, done)

		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			// Completion and stop both race the expiry timer
			if i%2 == 0 {
				service.Execute(ctx, testutil.NewMockInteraction("c1", id, prompt.TrueKey, testutil.NewTestUser("u1")))
				return
			}
			_, err := service.Unregister(ctx, id, true)
			assert.NoError(t, err)
		}(i, id)
	}

	wg.Wait()
	for _, done := range dones {
		waitDone(t, done)
	}

	assert.Equal(t, 0, service.Len())

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	assert.Len(t, recorder.counts, total)
	for id, n := range recorder.counts {
		assert.Equal(t, 1, n, "message %s finalized %d times", id, n)
	}
}
