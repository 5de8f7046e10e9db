package syslog

import (
	"context"
	"errors"
	"fmt"

	"github.com/veesix-networks/setman/pkg/command"
	"github.com/veesix-networks/setman/pkg/handlers/conf"
	"github.com/veesix-networks/setman/pkg/host"
	"github.com/veesix-networks/setman/pkg/models"
)

// ErrDuplicateSyslog rejects a stream naming more than one active target.
var ErrDuplicateSyslog = errors.New("duplicate syslog target")

func init() {
	conf.RegisterFactory(models.ModeSyslog, New)
}

type Handler struct {
	system host.System

	target *command.Syslog
}

func New(d *conf.Deps) conf.Handler {
	return &Handler{system: d.System}
}

func (h *Handler) Name() string {
	return string(models.ModeSyslog)
}

func (h *Handler) Begin(ctx context.Context, phase conf.Phase) error {
	h.target = nil
	if phase != conf.Force {
		return nil
	}
	return h.system.ResetSyslog(ctx)
}

func (h *Handler) Handle(ctx context.Context, line *command.Line, phase conf.Phase) (bool, error) {
	if line.Keyword != command.KeywordSyslog {
		return false, nil
	}

	c, err := command.ParseSyslog(line)
	if err != nil {
		return true, err
	}
	if !c.Active() {
		return true, nil
	}
	if h.target != nil {
		return true, fmt.Errorf("%w: %s:%d already set, got %s:%d",
			ErrDuplicateSyslog, h.target.Host, h.target.Port, c.Host, c.Port)
	}
	h.target = c

	if phase != conf.Force {
		return true, nil
	}
	return true, h.system.ForwardSyslog(ctx, c.Host.Std(), c.Port)
}

func (h *Handler) End(ctx context.Context, phase conf.Phase) error {
	return nil
}
