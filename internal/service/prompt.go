package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"promptbot/internal/domain"
	"promptbot/internal/platform"
	"promptbot/internal/prompt"
	"promptbot/internal/task"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ErrAlreadyRegistered = errors.New("message already has a registered prompt")
	ErrServiceClosed     = errors.New("prompt service is closed")
	ErrNilPrompt         = errors.New("prompt is nil")
)

const (
	DefaultTimeout         = 90 * time.Second
	DefaultFinalizeTimeout = 10 * time.Second
)

// Recorder receives one event per finished prompt
type Recorder interface {
	Record(ctx context.Context, event domain.PromptEvent) error
}

// Options configures a PromptService
type Options struct {
	// DefaultTimeout applies when Register is called with a zero timeout
	DefaultTimeout time.Duration
	// FinalizeTimeout bounds the platform calls made when a prompt ends
	FinalizeTimeout time.Duration
	// History is optional
	History Recorder
}

// PromptKey identifies a live prompt
type PromptKey struct {
	ChannelID string
	MessageID string
	UserID    string
	Prompt    prompt.Prompt
	Timeout   time.Duration
}

type entry struct {
	key  PromptKey
	task *task.Task
}

// PromptService is the registry of live prompts. It dispatches interactions
// to them and finalizes each one exactly once.
//
// The entry map is the only record of liveness: whoever removes an entry
// owns its finalization and then stops or disposes its task.
type PromptService struct {
	client platform.Client
	opts   Options
	logger *zap.Logger

	// root outlives request contexts so timers survive the call that
	// registered them
	root   context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	prompts map[string]*entry
	closed  bool
}

// NewPromptService creates an empty registry
func NewPromptService(client platform.Client, opts Options, logger *zap.Logger) *PromptService {
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = DefaultTimeout
	}
	if opts.FinalizeTimeout <= 0 {
		opts.FinalizeTimeout = DefaultFinalizeTimeout
	}

	root, cancel := context.WithCancel(context.Background())
	return &PromptService{
		client:  client,
		opts:    opts,
		logger:  logger,
		root:    root,
		cancel:  cancel,
		prompts: make(map[string]*entry),
	}
}

// Register binds p to a sent message and starts its expiry timer. A zero
// timeout uses the service default. The returned channel closes when the
// prompt's lifecycle is over.
func (s *PromptService) Register(msg platform.Message, p prompt.Prompt, timeout time.Duration) (<-chan struct{}, error) {
	if p == nil {
		return nil, ErrNilPrompt
	}
	if timeout <= 0 {
		timeout = s.opts.DefaultTimeout
	}

	e := &entry{
		key: PromptKey{
			ChannelID: msg.ChannelID,
			MessageID: msg.ID,
			UserID:    msg.UserID,
			Prompt:    p,
			Timeout:   timeout,
		},
		task: task.New(s.root),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrServiceClosed
	}
	if _, exists := s.prompts[msg.ID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRegistered, msg.ID)
	}

	s.prompts[msg.ID] = e
	// Started under the lock so a concurrent Unregister never sees an
	// unstarted task
	if err := e.task.Start(func(ctx context.Context) error {
		return s.expire(ctx, e)
	}); err != nil {
		delete(s.prompts, msg.ID)
		return nil, err
	}

	s.logger.Debug("Prompt registered",
		zap.String("channel_id", msg.ChannelID),
		zap.String("message_id", msg.ID),
		zap.String("kind", prompt.Kind(p)),
		zap.Duration("timeout", timeout),
	)

	return e.task.Done(), nil
}

// Send posts msg to a channel and registers p against it. Components default
// to the prompt's own.
func (s *PromptService) Send(ctx context.Context, channelID, userID string, p prompt.Prompt, msg domain.PromptMessage, timeout time.Duration) (platform.Message, error) {
	if p == nil {
		return platform.Message{}, ErrNilPrompt
	}

	ch, err := s.client.Channel(ctx, channelID)
	if err != nil {
		return platform.Message{}, fmt.Errorf("failed to resolve channel %s: %w", channelID, err)
	}

	if msg.Components.IsEmpty() {
		msg = msg.WithComponents(p.Components())
	}

	sent, err := ch.SendMessage(ctx, msg)
	if err != nil {
		return platform.Message{}, fmt.Errorf("failed to send prompt: %w", err)
	}
	sent.UserID = userID

	if _, err := s.Register(sent, p, timeout); err != nil {
		s.disarm(ctx, ch, sent, msg)
		return sent, err
	}
	return sent, nil
}

// disarm strips the buttons from a message no prompt will answer
func (s *PromptService) disarm(ctx context.Context, ch platform.Channel, sent platform.Message, msg domain.PromptMessage) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.FinalizeTimeout)
	defer cancel()

	if err := ch.EditMessage(ctx, sent.ID, msg.WithComponents(domain.Components{})); err != nil {
		s.logger.Warn("Failed to remove buttons from unregistered prompt",
			zap.String("channel_id", sent.ChannelID),
			zap.String("message_id", sent.ID),
			zap.Error(err),
		)
	}
}

// Unregister removes a prompt. It reports false when the message had no live
// prompt. With stop the prompt is finalized with its cancel message;
// otherwise it is dropped silently.
func (s *PromptService) Unregister(ctx context.Context, messageID string, stop bool) (bool, error) {
	return s.unregister(ctx, messageID, stop, domain.OutcomeDiscarded)
}

func (s *PromptService) unregister(ctx context.Context, messageID string, stop bool, outcome domain.Outcome) (bool, error) {
	s.mu.Lock()
	e, ok := s.prompts[messageID]
	if ok {
		delete(s.prompts, messageID)
	}
	s.mu.Unlock()

	if !ok {
		return false, nil
	}

	s.logger.Debug("Prompt unregistered",
		zap.String("message_id", messageID),
		zap.Bool("stop", stop),
	)

	return true, s.release(ctx, e, stop, outcome)
}

// release ends the task of an entry already removed from the map
func (s *PromptService) release(ctx context.Context, e *entry, stop bool, outcome domain.Outcome) error {
	if stop {
		e.task.Stop()
	} else {
		s.record(e, outcome)
	}

	if err := e.task.Dispose(ctx); err != nil {
		return fmt.Errorf("failed to dispose prompt %s: %w", e.key.MessageID, err)
	}
	return nil
}

// UnregisterAll removes every live prompt
func (s *PromptService) UnregisterAll(ctx context.Context, stop bool) error {
	return s.UnregisterAllFunc(ctx, func(PromptKey) bool { return true }, stop)
}

// UnregisterAllFunc removes every live prompt match accepts. Failures are
// collected and returned together.
func (s *PromptService) UnregisterAllFunc(ctx context.Context, match func(PromptKey) bool, stop bool) error {
	s.mu.Lock()
	var entries []*entry
	for id, e := range s.prompts {
		if match(e.key) {
			entries = append(entries, e)
			delete(s.prompts, id)
		}
	}
	s.mu.Unlock()

	if len(entries) == 0 {
		return nil
	}

	s.logger.Debug("Unregistering prompts",
		zap.Int("count", len(entries)),
		zap.Bool("stop", stop),
	)

	// Stop everything first so finalizations run in parallel
	for _, e := range entries {
		if stop {
			e.task.Stop()
		} else {
			s.record(e, domain.OutcomeDiscarded)
		}
	}

	var err error
	for _, e := range entries {
		if disposeErr := e.task.Dispose(ctx); disposeErr != nil {
			multierr.AppendInto(&err, fmt.Errorf("failed to dispose prompt %s: %w", e.key.MessageID, disposeErr))
		}
	}
	return err
}

// Has reports whether a message has a live prompt
func (s *PromptService) Has(messageID string) bool {
	_, ok := s.lookup(messageID)
	return ok
}

// Len returns the number of live prompts
func (s *PromptService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.prompts)
}

// Keys returns a snapshot of the live prompts
func (s *PromptService) Keys() []PromptKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]PromptKey, 0, len(s.prompts))
	for _, e := range s.prompts {
		keys = append(keys, e.key)
	}
	return keys
}

// Close rejects further registrations and drops the remaining prompts
func (s *PromptService) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	err := s.UnregisterAll(ctx, false)
	s.cancel()
	return err
}

// Execute dispatches one interaction to the prompt registered for its message
func (s *PromptService) Execute(ctx context.Context, in platform.Interaction) domain.PromptResult {
	messageID := in.MessageID()

	e, ok := s.lookup(messageID)
	if !ok {
		return domain.PromptResult{
			Status:  domain.StatusUnregisteredMessage,
			Message: fmt.Sprintf("%s is not registered", messageID),
		}
	}

	p := e.key.Prompt
	user := in.User()
	if !p.IsValidUser(user) {
		if fn := p.InvalidUserMessage(); fn != nil {
			if err := in.Respond(ctx, fn(), true); err != nil {
				s.logger.Warn("Failed to send invalid user message",
					zap.String("message_id", messageID),
					zap.String("user_id", user.ID),
					zap.Error(err),
				)
			}
		}
		return domain.PromptResult{
			Status:  domain.StatusInvalidUser,
			Message: fmt.Sprintf("%s is not valid", user.ID),
		}
	}

	result := s.executePrompt(ctx, p, in)
	if result.Status == domain.StatusException {
		s.logger.Error("Encountered an error while handling prompt",
			zap.String("message_id", messageID),
			zap.String("custom_id", in.CustomID()),
			zap.String("kind", prompt.Kind(p)),
			zap.Error(result.Err),
		)
		return result
	}

	if result.Unregister {
		if _, err := s.unregister(ctx, messageID, false, domain.OutcomeCompleted); err != nil {
			s.logger.Warn("Failed to unregister completed prompt",
				zap.String("message_id", messageID),
				zap.Error(err),
			)
		}
	}

	return result
}

func (s *PromptService) executePrompt(ctx context.Context, p prompt.Prompt, in platform.Interaction) (result domain.PromptResult) {
	defer func() {
		if r := recover(); r != nil {
			result = exception(fmt.Errorf("prompt panicked: %v", r))
		}
	}()

	result, err := p.Execute(ctx, in)
	if err != nil {
		return exception(err)
	}
	return result
}

func exception(err error) domain.PromptResult {
	return domain.PromptResult{
		Status:  domain.StatusException,
		Message: err.Error(),
		Err:     err,
	}
}

func (s *PromptService) lookup(messageID string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.prompts[messageID]
	return e, ok
}

// detach removes e if it is still the live entry for its message
func (s *PromptService) detach(e *entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.prompts[e.key.MessageID]; !ok || current != e {
		return false
	}
	delete(s.prompts, e.key.MessageID)
	return true
}

// expire is the background work of every entry
func (s *PromptService) expire(ctx context.Context, e *entry) error {
	timer := time.NewTimer(e.key.Timeout)
	defer timer.Stop()

	select {
	case <-timer.C:
		if s.detach(e) {
			s.finalize(ctx, e, e.key.Prompt.ExpireMessage(), domain.OutcomeExpired)
			return nil
		}
		// Lost the race; the remover stops or disposes us
		<-ctx.Done()
	case <-ctx.Done():
	}

	if !task.IsStopped(ctx) {
		return nil
	}

	s.detach(e)
	s.finalize(ctx, e, e.key.Prompt.CancelMessage(), domain.OutcomeCancelled)
	return nil
}

// finalize applies the terminal message of a prompt
func (s *PromptService) finalize(ctx context.Context, e *entry, fn prompt.MessageFunc, outcome domain.Outcome) {
	defer s.record(e, outcome)

	if fn == nil {
		return
	}

	logger := s.logger.With(
		zap.String("channel_id", e.key.ChannelID),
		zap.String("message_id", e.key.MessageID),
		zap.String("outcome", string(outcome)),
	)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Prompt message factory panicked", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.FinalizeTimeout)
	defer cancel()

	msg := fn()

	ch, err := s.client.Channel(ctx, e.key.ChannelID)
	if err != nil {
		logger.Warn("Failed to resolve prompt channel", zap.Error(err))
		return
	}

	if msg.Delete {
		if err := ch.DeleteMessage(ctx, e.key.MessageID); err != nil {
			logger.Warn("Failed to delete prompt message", zap.Error(err))
		}
		return
	}

	if msg.Components == nil {
		msg = msg.WithComponents(domain.Components{})
	}
	if err := ch.EditMessage(ctx, e.key.MessageID, msg); err != nil {
		logger.Warn("Failed to edit prompt message", zap.Error(err))
	}
}

func (s *PromptService) record(e *entry, outcome domain.Outcome) {
	if s.opts.History == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.FinalizeTimeout)
	defer cancel()

	event := domain.PromptEvent{
		ChannelID: e.key.ChannelID,
		MessageID: e.key.MessageID,
		UserID:    e.key.UserID,
		Kind:      prompt.Kind(e.key.Prompt),
		Outcome:   outcome,
		Timeout:   e.key.Timeout,
	}
	if err := s.opts.History.Record(ctx, event); err != nil {
		s.logger.Warn("Failed to record prompt history",
			zap.String("message_id", e.key.MessageID),
			zap.Error(err),
		)
	}
}
