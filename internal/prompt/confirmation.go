package prompt

import (
	"context"

	"promptbot/internal/domain"
	"promptbot/internal/platform"
)

const (
	TrueKey  = "true"
	FalseKey = "false"
)

// ConfirmationFunc receives the user's choice. Returning true completes the prompt.
type ConfirmationFunc func(ctx context.Context, in platform.Interaction, confirmed bool) (bool, error)

// Confirmation is a yes/no prompt
type Confirmation struct {
	Base
	components domain.Components
	action     ConfirmationFunc
}

// NewConfirmation builds a confirmation prompt with Yes/No buttons unless
// WithComponents overrides them
func NewConfirmation(action ConfirmationFunc, opts ...Option) (*Confirmation, error) {
	if action == nil {
		return nil, ErrMissingAction
	}

	o := newOptions(opts)
	components := o.components
	if components.IsEmpty() {
		components = domain.NewComponents(domain.Row{
			{Label: "Yes", CustomID: TrueKey, Style: domain.ButtonSuccess},
			{Label: "No", CustomID: FalseKey, Style: domain.ButtonDanger},
		})
	}

	return &Confirmation{
		Base:       newBase(o),
		components: components,
		action:     action,
	}, nil
}

func (p *Confirmation) Components() domain.Components {
	return p.components
}

// Execute maps the clicked key to a boolean and hands it to the action
func (p *Confirmation) Execute(ctx context.Context, in platform.Interaction) (domain.PromptResult, error) {
	var confirmed bool
	switch id := in.CustomID(); id {
	case TrueKey:
		confirmed = true
	case FalseKey:
		confirmed = false
	default:
		return unsupported(id), nil
	}

	done, err := p.action(ctx, in, confirmed)
	if err != nil {
		return domain.PromptResult{}, err
	}

	return domain.PromptResult{
		Status:     domain.StatusSuccess,
		Unregister: done,
	}, nil
}
