package serial

import (
	"context"

	"github.com/veesix-networks/setman/pkg/command"
	"github.com/veesix-networks/setman/pkg/handlers/conf"
	"github.com/veesix-networks/setman/pkg/host"
	"github.com/veesix-networks/setman/pkg/models"
)

func init() {
	conf.RegisterFactory(models.ModeSerial, New)
}

type Handler struct {
	system host.System
}

func New(d *conf.Deps) conf.Handler {
	return &Handler{system: d.System}
}

func (h *Handler) Name() string {
	return string(models.ModeSerial)
}

func (h *Handler) Begin(ctx context.Context, phase conf.Phase) error {
	return nil
}

func (h *Handler) Handle(ctx context.Context, line *command.Line, phase conf.Phase) (bool, error) {
	if line.Keyword != command.KeywordSerial {
		return false, nil
	}

	c, err := command.ParseSerial(line)
	if err != nil {
		return true, err
	}
	if phase != conf.Force {
		return true, nil
	}
	return true, h.system.ConfigureSerial(ctx, c.Args)
}

func (h *Handler) End(ctx context.Context, phase conf.Phase) error {
	return nil
}
