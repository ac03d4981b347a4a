package bank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"iqscalar-assessment-service/internal/domain"
)

// Source fetches a raw bank document (HTTP, file, Postgres).
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

var errEmptyBank = errors.New("bank has no valid questions")

// Loader turns a Source into a normalized bank. Any fetch or parse problem,
// or an empty result, degrades to the built-in fallback bank. The only error
// is the caller's own cancellation.
type Loader struct {
	kind     domain.BankKind
	source   Source
	timeout  time.Duration
	idPrefix string
	logger   *slog.Logger
	now      func() time.Time
}

// NewLoader builds a loader for kind. A nil source always yields the fallback bank.
func NewLoader(kind domain.BankKind, source Source, timeout time.Duration, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		kind:     kind,
		source:   source,
		timeout:  timeout,
		idPrefix: string(kind) + "_",
		logger:   logger,
		now:      time.Now,
	}
}

// Kind reports which bank this loader produces.
func (l *Loader) Kind() domain.BankKind {
	return l.kind
}

// Load fetches and normalizes the bank.
func (l *Loader) Load(ctx context.Context) (domain.Bank, error) {
	questions, err := l.load(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Bank{}, fmt.Errorf("load %s bank: %w", l.kind, ctxErr)
		}
		source := "none"
		if l.source != nil {
			source = l.source.String()
		}
		l.logger.Warn("falling back to built-in question bank", "bank", l.kind, "source", source, "error", err)
		return domain.Bank{Kind: l.kind, Questions: Fallback(l.kind), LoadedAt: l.now(), Fallback: true}, nil
	}
	return domain.Bank{Kind: l.kind, Questions: questions, LoadedAt: l.now()}, nil
}

func (l *Loader) load(ctx context.Context) ([]domain.Question, error) {
	if l.source == nil {
		return nil, errors.New("no source configured")
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	raw, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	questions, dropped, err := Normalize(raw, l.idPrefix)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, errEmptyBank
	}
	l.logger.Info("question bank loaded", "bank", l.kind, "source", l.source.String(), "questions", len(questions), "dropped", dropped)
	return questions, nil
}

// Catalog resolves bank kinds to their loaders.
type Catalog struct {
	loaders map[domain.BankKind]*Loader
}

func NewCatalog(loaders ...*Loader) *Catalog {
	c := &Catalog{loaders: make(map[domain.BankKind]*Loader, len(loaders))}
	for _, l := range loaders {
		c.loaders[l.Kind()] = l
	}
	return c
}

// LoadBank loads the bank for kind.
func (c *Catalog) LoadBank(ctx context.Context, kind domain.BankKind) (domain.Bank, error) {
	l, ok := c.loaders[kind]
	if !ok {
		return domain.Bank{}, domain.ErrUnknownBank
	}
	return l.Load(ctx)
}

// Kinds lists the configured bank kinds, sorted.
func (c *Catalog) Kinds() []domain.BankKind {
	kinds := make([]domain.BankKind, 0, len(c.loaders))
	for k := range c.loaders {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
