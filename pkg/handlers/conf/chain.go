package conf

import (
	"context"
	"fmt"

	"github.com/veesix-networks/setman/pkg/command"
)

// Chain dispatches stream lines to the first handler that owns the keyword.
type Chain struct {
	handlers  []Handler
	marker    Marker
	callbacks *Callbacks

	begun int
}

func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.handlers))
	for _, h := range c.handlers {
		names = append(names, h.Name())
	}
	return names
}

// Begin starts a pass on every handler in order and stops at the first
// failure. The failing handler still counts as begun.
func (c *Chain) Begin(ctx context.Context, phase Phase) error {
	c.begun = 0
	for _, h := range c.handlers {
		c.begun++
		if err := h.Begin(ctx, phase); err != nil {
			return fmt.Errorf("%s: %w", h.Name(), err)
		}
	}
	return nil
}

func (c *Chain) Dispatch(ctx context.Context, line *command.Line, phase Phase) error {
	if c.callbacks != nil && c.callbacks.OnBeforeHandle != nil {
		c.callbacks.OnBeforeHandle(line, phase)
	}

	for _, h := range c.handlers {
		handled, err := h.Handle(ctx, line, phase)
		if !handled && err == nil {
			continue
		}
		if c.callbacks != nil && c.callbacks.OnAfterHandle != nil {
			c.callbacks.OnAfterHandle(line, phase, h.Name(), err)
		}
		return err
	}

	err := fmt.Errorf("%w '%s'", ErrUnknownCommand, line.Keyword)
	if c.callbacks != nil && c.callbacks.OnAfterHandle != nil {
		c.callbacks.OnAfterHandle(line, phase, "", err)
	}
	return err
}

// End finishes the pass on every handler that Begin reached, even after a
// failure. The first error is returned.
func (c *Chain) End(ctx context.Context, phase Phase) error {
	var first error
	for _, h := range c.handlers[:c.begun] {
		if err := h.End(ctx, phase); err != nil && first == nil {
			first = fmt.Errorf("%s: %w", h.Name(), err)
		}
	}
	c.begun = 0
	return first
}

// Confirmed reports whether the confirm marker was seen in this pass.
func (c *Chain) Confirmed() bool {
	return c.marker.Seen()
}
