package prompt

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"promptbot/internal/domain"
	"promptbot/internal/platform"
)

// Navigation keys
const (
	FirstKey    = "first"
	PreviousKey = "previous"
	NextKey     = "next"
	LastKey     = "last"
	// PageLabelKey is the id of the disabled "Page i / n" label
	PageLabelKey = "null"
)

// PageFunc produces the page at index
type PageFunc func(ctx context.Context, index int) (domain.PromptMessage, error)

// PageSource supplies pages to a Pagination prompt
type PageSource interface {
	TotalPages() int
	Page(ctx context.Context, index int) (domain.PromptMessage, error)
}

// Pagination lets a user flip through pages. It never completes on its own;
// it lives until it expires or is stopped.
type Pagination struct {
	Base
	source      PageSource
	currentPage int
}

// NewEagerPagination holds every page up front
func NewEagerPagination(pages []domain.PromptMessage, opts ...Option) (*Pagination, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	return &Pagination{
		Base:   newBase(newOptions(opts)),
		source: eagerPages(append([]domain.PromptMessage(nil), pages...)),
	}, nil
}

// NewLazyPagination produces pages on demand. Produced pages are cached by
// index unless WithPageCache(false) is given.
func NewLazyPagination(totalPages int, produce PageFunc, opts ...Option) (*Pagination, error) {
	if produce == nil {
		return nil, ErrMissingAction
	}
	if totalPages <= 0 {
		return nil, ErrNoPages
	}

	o := newOptions(opts)
	return &Pagination{
		Base: newBase(o),
		source: &lazyPages{
			total:   totalPages,
			produce: produce,
			cache:   o.cachePages,
		},
	}, nil
}

func (p *Pagination) CurrentPage() int {
	return p.currentPage
}

func (p *Pagination) TotalPages() int {
	return p.source.TotalPages()
}

// Components renders the navigation row for the current page
func (p *Pagination) Components() domain.Components {
	total := p.TotalPages()
	return domain.NewComponents(domain.Row{
		{Label: "First", CustomID: FirstKey, Disabled: total < 3},
		{Label: "Prev", CustomID: PreviousKey, Disabled: total < 2},
		{Label: fmt.Sprintf("Page %d / %d", p.currentPage+1, total), CustomID: PageLabelKey, Style: domain.ButtonSecondary, Disabled: true},
		{Label: "Next", CustomID: NextKey, Disabled: total < 2},
		{Label: "Last", CustomID: LastKey, Disabled: total < 3},
	})
}

// Render returns the current page merged with the navigation row
func (p *Pagination) Render(ctx context.Context) (domain.PromptMessage, error) {
	page, err := p.source.Page(ctx, p.currentPage)
	if err != nil {
		return domain.PromptMessage{}, fmt.Errorf("failed to get page %d: %w", p.currentPage, err)
	}
	return p.withNavigation(page), nil
}

func (p *Pagination) withNavigation(page domain.PromptMessage) domain.PromptMessage {
	return domain.NewMessage().
		WithContent(page.Content).
		WithEmbeds(page.Embeds...).
		WithAllowedMentions(page.AllowedMentions).
		WithComponents(p.Components()).
		Build()
}

// Execute moves to the requested page and redraws the message
func (p *Pagination) Execute(ctx context.Context, in platform.Interaction) (domain.PromptResult, error) {
	total := p.TotalPages()
	previous := p.currentPage

	switch id := in.CustomID(); id {
	case FirstKey:
		p.currentPage = 0
	case PreviousKey:
		if p.currentPage > 0 {
			p.currentPage--
		} else {
			p.currentPage = total - 1
		}
	case NextKey:
		if p.currentPage < total-1 {
			p.currentPage++
		} else {
			p.currentPage = 0
		}
	case LastKey:
		p.currentPage = total - 1
	default:
		return unsupported(id), nil
	}

	// Fetch the page while the interaction is being acknowledged
	var page domain.PromptMessage
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return in.Defer(gCtx)
	})
	g.Go(func() error {
		var err error
		page, err = p.source.Page(gCtx, p.currentPage)
		return err
	})
	if err := g.Wait(); err != nil {
		// The message still shows the previous page
		p.currentPage = previous
		return domain.PromptResult{}, err
	}

	if err := in.EditOriginal(ctx, p.withNavigation(page)); err != nil {
		p.currentPage = previous
		return domain.PromptResult{}, err
	}

	return domain.PromptResult{Status: domain.StatusSuccess}, nil
}

type eagerPages []domain.PromptMessage

func (e eagerPages) TotalPages() int {
	return len(e)
}

func (e eagerPages) Page(_ context.Context, index int) (domain.PromptMessage, error) {
	if index < 0 || index >= len(e) {
		return domain.PromptMessage{}, fmt.Errorf("page %d out of range", index)
	}
	return e[index], nil
}

type lazyPages struct {
	total   int
	produce PageFunc
	cache   bool
	cached  sync.Map
}

func (l *lazyPages) TotalPages() int {
	return l.total
}

func (l *lazyPages) Page(ctx context.Context, index int) (domain.PromptMessage, error) {
	if l.cache {
		if page, ok := l.cached.Load(index); ok {
			return page.(domain.PromptMessage), nil
		}
	}

	page, err := l.produce(ctx, index)
	if err != nil {
		return domain.PromptMessage{}, err
	}

	if l.cache {
		l.cached.Store(index, page)
	}
	return page, nil
}
