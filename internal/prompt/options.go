package prompt

import "promptbot/internal/domain"

// Default texts for the terminal messages
const (
	DefaultCancelFooter    = "Cancelled"
	DefaultExpireFooter    = "Expired"
	DefaultInvalidUserText = "You do not have permission to interact with this prompt"
)

// Option configures a prompt at construction
type Option func(*options)

type options struct {
	roleIDs            map[string]struct{}
	userIDs            map[string]struct{}
	cancelMessage      MessageFunc
	expireMessage      MessageFunc
	invalidUserMessage MessageFunc
	components         domain.Components
	cachePages         bool
}

func newOptions(opts []Option) *options {
	o := &options{
		cancelMessage:      FooterMessage(DefaultCancelFooter, domain.ColorRed),
		expireMessage:      FooterMessage(DefaultExpireFooter, domain.ColorOrange),
		invalidUserMessage: TextMessage(DefaultInvalidUserText),
		cachePages:         true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// FooterMessage returns a factory for an embed carrying only a footer
func FooterMessage(footer string, color int) MessageFunc {
	return func() domain.PromptMessage {
		return domain.NewMessage().
			WithEmbeds(domain.Embed{Color: color, Footer: footer}).
			Build()
	}
}

// TextMessage returns a factory for a plain text message
func TextMessage(content string) MessageFunc {
	return func() domain.PromptMessage {
		return domain.NewMessage().WithContent(content).Build()
	}
}

// StaticMessage always returns msg
func StaticMessage(msg domain.PromptMessage) MessageFunc {
	return func() domain.PromptMessage {
		return msg
	}
}

// WithRoles allows members holding any of the roles
func WithRoles(roleIDs ...string) Option {
	return func(o *options) {
		o.roleIDs = addIDs(o.roleIDs, roleIDs)
	}
}

// WithUsers allows the listed users
func WithUsers(userIDs ...string) Option {
	return func(o *options) {
		o.userIDs = addIDs(o.userIDs, userIDs)
	}
}

// WithCancelMessage sets the message applied on explicit stop; nil disables it
func WithCancelMessage(fn MessageFunc) Option {
	return func(o *options) {
		o.cancelMessage = fn
	}
}

// WithExpireMessage sets the message applied on timeout; nil disables it
func WithExpireMessage(fn MessageFunc) Option {
	return func(o *options) {
		o.expireMessage = fn
	}
}

// WithInvalidUserMessage sets the ephemeral reply for denied users; nil disables it
func WithInvalidUserMessage(fn MessageFunc) Option {
	return func(o *options) {
		o.invalidUserMessage = fn
	}
}

// WithComponents overrides the rendered controls of confirmation and custom prompts
func WithComponents(components domain.Components) Option {
	return func(o *options) {
		o.components = components
	}
}

// WithPageCache toggles caching of lazily produced pages
func WithPageCache(enabled bool) Option {
	return func(o *options) {
		o.cachePages = enabled
	}
}

func addIDs(set map[string]struct{}, ids []string) map[string]struct{} {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if set == nil {
			set = make(map[string]struct{}, len(ids))
		}
		set[id] = struct{}{}
	}
	return set
}
