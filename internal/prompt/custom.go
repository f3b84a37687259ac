package prompt

import (
	"context"

	"promptbot/internal/domain"
	"promptbot/internal/platform"
)

// CustomFunc handles any click on a custom prompt. Returning true completes the prompt.
type CustomFunc func(ctx context.Context, in platform.Interaction) (bool, error)

// Custom hands every interaction to a caller-defined action
type Custom struct {
	Base
	components domain.Components
	action     CustomFunc
}

func NewCustom(components domain.Components, action CustomFunc, opts ...Option) (*Custom, error) {
	if components.IsEmpty() {
		return nil, ErrMissingComponents
	}
	if action == nil {
		return nil, ErrMissingAction
	}

	return &Custom{
		Base:       newBase(newOptions(opts)),
		components: components,
		action:     action,
	}, nil
}

func (p *Custom) Components() domain.Components {
	return p.components
}

func (p *Custom) Execute(ctx context.Context, in platform.Interaction) (domain.PromptResult, error) {
	done, err := p.action(ctx, in)
	if err != nil {
		return domain.PromptResult{}, err
	}

	return domain.PromptResult{
		Status:     domain.StatusSuccess,
		Unregister: done,
	}, nil
}
