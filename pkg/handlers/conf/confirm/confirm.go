// Package confirm records the marker line that every stream must carry
// exactly once.
package confirm

import (
	"context"
	"errors"

	"github.com/veesix-networks/setman/pkg/command"
	"github.com/veesix-networks/setman/pkg/handlers/conf"
)

var ErrDuplicateConfirm = errors.New("duplicate confirm marker")

func init() {
	conf.RegisterMarker(New)
}

type Handler struct {
	seen bool
}

func New(*conf.Deps) conf.Marker {
	return &Handler{}
}

func (h *Handler) Name() string {
	return command.KeywordConfirm
}

func (h *Handler) Begin(ctx context.Context, phase conf.Phase) error {
	h.seen = false
	return nil
}

func (h *Handler) Handle(ctx context.Context, line *command.Line, phase conf.Phase) (bool, error) {
	if line.Keyword != command.KeywordConfirm {
		return false, nil
	}
	if err := command.ParseBare(line); err != nil {
		return true, err
	}
	if h.seen {
		return true, ErrDuplicateConfirm
	}
	h.seen = true
	return true, nil
}

func (h *Handler) End(ctx context.Context, phase conf.Phase) error {
	return nil
}

func (h *Handler) Seen() bool {
	return h.seen
}
