package clock

import (
	"context"

	"github.com/veesix-networks/setman/pkg/command"
	"github.com/veesix-networks/setman/pkg/handlers/conf"
	"github.com/veesix-networks/setman/pkg/host"
	"github.com/veesix-networks/setman/pkg/models"
)

func init() {
	conf.RegisterFactory(models.ModeTime, New)
}

type Handler struct {
	system host.System
}

func New(d *conf.Deps) conf.Handler {
	return &Handler{system: d.System}
}

func (h *Handler) Name() string {
	return string(models.ModeTime)
}

func (h *Handler) Begin(ctx context.Context, phase conf.Phase) error {
	return nil
}

func (h *Handler) Handle(ctx context.Context, line *command.Line, phase conf.Phase) (bool, error) {
	if line.Keyword != command.KeywordTime {
		return false, nil
	}

	c, err := command.ParseTime(line)
	if err != nil {
		return true, err
	}
	if phase != conf.Force {
		return true, nil
	}
	return true, h.system.SetClock(ctx, c.Sec, c.Usec)
}

func (h *Handler) End(ctx context.Context, phase conf.Phase) error {
	return nil
}
