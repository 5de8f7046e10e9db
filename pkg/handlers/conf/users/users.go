package users

import (
	"context"
	"log/slog"

	"github.com/veesix-networks/setman/pkg/command"
	"github.com/veesix-networks/setman/pkg/handlers/conf"
	"github.com/veesix-networks/setman/pkg/host"
	"github.com/veesix-networks/setman/pkg/models"
)

func init() {
	conf.RegisterFactory(models.ModeUser, New)
}

// Handler streams every user line of a live pass into one provisioning
// command, opened in Begin and closed in End.
type Handler struct {
	system host.System
	logger *slog.Logger

	provisioner host.Provisioner
	count       int
}

func New(d *conf.Deps) conf.Handler {
	return &Handler{
		system: d.System,
		logger: d.Logger,
	}
}

func (h *Handler) Name() string {
	return string(models.ModeUser)
}

func (h *Handler) Begin(ctx context.Context, phase conf.Phase) error {
	h.count = 0
	if phase != conf.Force {
		return nil
	}

	p, err := h.system.OpenProvisioner(ctx)
	if err != nil {
		return err
	}
	h.provisioner = p
	return nil
}

func (h *Handler) Handle(ctx context.Context, line *command.Line, phase conf.Phase) (bool, error) {
	if line.Keyword != command.KeywordUser {
		return false, nil
	}

	c, err := command.ParseUser(line)
	if err != nil {
		return true, err
	}
	if phase != conf.Force {
		return true, nil
	}

	if err := h.provisioner.Provision(c.Name, c.Password); err != nil {
		return true, err
	}
	h.count++
	return true, nil
}

func (h *Handler) End(ctx context.Context, phase conf.Phase) error {
	if h.provisioner == nil {
		return nil
	}
	p := h.provisioner
	h.provisioner = nil

	if err := p.Close(); err != nil {
		return err
	}
	h.logger.InfoContext(ctx, "Users provisioned", "count", h.count)
	return nil
}
