package conf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/veesix-networks/setman/pkg/command"
	"github.com/veesix-networks/setman/pkg/host"
	"github.com/veesix-networks/setman/pkg/models"
)

// Phase selects whether a stream is only validated or applied to the host.
type Phase int

const (
	DryRun Phase = iota
	Force
)

func (p Phase) String() string {
	if p == Force {
		return "force"
	}
	return "dryrun"
}

var ErrUnknownCommand = errors.New("unrecognized command")

// Deps is what a handler factory may capture.
type Deps struct {
	Interface string
	System    host.System
	Logger    *slog.Logger
}

// Handler owns the keywords of one configuration domain. Begin and End
// bracket every pass over a stream; Handle reports false for keywords it
// does not own. Nothing in the DryRun phase may touch the host.
type Handler interface {
	Name() string
	Begin(ctx context.Context, phase Phase) error
	Handle(ctx context.Context, line *command.Line, phase Phase) (bool, error)
	End(ctx context.Context, phase Phase) error
}

// Marker is the handler that records the confirm line of a stream.
type Marker interface {
	Handler
	Seen() bool
}

type Callbacks struct {
	OnBeforeHandle func(line *command.Line, phase Phase)
	OnAfterHandle  func(line *command.Line, phase Phase, handler string, err error)
}

type HandlerFactory func(d *Deps) Handler

type MarkerFactory func(d *Deps) Marker

var (
	factories     = make(map[models.Mode]HandlerFactory)
	markerFactory MarkerFactory
)

// RegisterFactory is called from the init of every domain package.
func RegisterFactory(mode models.Mode, factory HandlerFactory) {
	if _, exists := factories[mode]; exists {
		panic(fmt.Sprintf("conf handler conflict: domain '%s' already registered", mode))
	}
	factories[mode] = factory
}

func RegisterMarker(factory MarkerFactory) {
	markerFactory = factory
}

type Registry struct {
	factories map[models.Mode]HandlerFactory
	marker    MarkerFactory
	callbacks *Callbacks
}

// NewRegistry snapshots every factory registered so far.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[models.Mode]HandlerFactory, len(factories)),
		marker:    markerFactory,
		callbacks: &Callbacks{},
	}
	for mode, factory := range factories {
		r.factories[mode] = factory
	}
	return r
}

func (r *Registry) SetCallbacks(cb *Callbacks) {
	r.callbacks = cb
}

func (r *Registry) setMarker(factory MarkerFactory) {
	r.marker = factory
}

func (r *Registry) register(mode models.Mode, factory HandlerFactory) error {
	if _, exists := r.factories[mode]; exists {
		return fmt.Errorf("conf handler conflict: domain '%s' already registered", mode)
	}
	r.factories[mode] = factory
	return nil
}

func (r *Registry) mustRegister(mode models.Mode, factory HandlerFactory) {
	if err := r.register(mode, factory); err != nil {
		panic(err)
	}
}

// Chain builds a fresh handler list for one pass over a stream: the
// participating domains in dispatch order followed by the confirm marker.
func (r *Registry) Chain(mode models.Mode, d *Deps) (*Chain, error) {
	if r.marker == nil {
		return nil, fmt.Errorf("no confirm marker registered")
	}

	var handlers []Handler
	for _, domain := range models.Domains {
		if !mode.Includes(domain) {
			continue
		}
		factory, ok := r.factories[domain]
		if !ok {
			return nil, fmt.Errorf("no handler registered for domain: %s", domain)
		}
		handlers = append(handlers, factory(d))
	}
	if len(handlers) == 0 {
		return nil, fmt.Errorf("no handlers for mode: %s", mode)
	}

	marker := r.marker(d)
	return &Chain{
		handlers:  append(handlers, marker),
		marker:    marker,
		callbacks: r.callbacks,
	}, nil
}
