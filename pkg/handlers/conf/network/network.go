// Package network owns the interface, DHCP client and firewall keywords.
// A live pass always starts from a clean baseline, so the resulting host
// state depends only on the stream and never on what was configured before.
package network

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/veesix-networks/setman/pkg/command"
	"github.com/veesix-networks/setman/pkg/handlers/conf"
	"github.com/veesix-networks/setman/pkg/host"
	"github.com/veesix-networks/setman/pkg/models"
)

func init() {
	conf.RegisterFactory(models.ModeNet, New)
}

type Handler struct {
	iface  string
	system host.System
	logger *slog.Logger
}

func New(d *conf.Deps) conf.Handler {
	return &Handler{
		iface:  d.Interface,
		system: d.System,
		logger: d.Logger,
	}
}

func (h *Handler) Name() string {
	return string(models.ModeNet)
}

func (h *Handler) Begin(ctx context.Context, phase conf.Phase) error {
	if phase != conf.Force {
		return nil
	}
	if h.iface == "" {
		return fmt.Errorf("no interface configured")
	}

	if err := h.system.StopDHCP(ctx); err != nil {
		return err
	}
	if err := h.system.LinkDown(ctx, h.iface); err != nil {
		return err
	}
	return h.system.ResetFirewall(ctx)
}

func (h *Handler) Handle(ctx context.Context, line *command.Line, phase conf.Phase) (bool, error) {
	switch line.Keyword {
	case command.KeywordDHCP:
		return true, h.dhcp(ctx, line, phase)
	case command.KeywordIP:
		return true, h.ip(ctx, line, phase)
	case command.KeywordOff:
		return true, h.off(ctx, line, phase)
	case command.KeywordAllow:
		return true, h.allow(ctx, line, phase)
	}
	return false, nil
}

func (h *Handler) End(ctx context.Context, phase conf.Phase) error {
	return nil
}

func (h *Handler) dhcp(ctx context.Context, line *command.Line, phase conf.Phase) error {
	if err := command.ParseBare(line); err != nil {
		return err
	}
	if phase != conf.Force {
		return nil
	}

	if err := h.system.LinkUp(ctx, h.iface); err != nil {
		return err
	}
	return h.system.StartDHCP(ctx, h.iface)
}

func (h *Handler) ip(ctx context.Context, line *command.Line, phase conf.Phase) error {
	c, err := command.ParseIP(line)
	if err != nil {
		return err
	}
	if c.Address.Enabled() && !c.Netmask.Enabled() {
		return fmt.Errorf("%w: ip: netmask required for address %s", command.ErrSyntax, c.Address)
	}
	if phase != conf.Force {
		return nil
	}

	if err := h.system.LinkUp(ctx, h.iface); err != nil {
		return err
	}
	if c.Address.Enabled() {
		if err := h.system.SetAddress(ctx, h.iface, c.Address.Std(), c.Netmask.Mask()); err != nil {
			return err
		}
	}
	if c.Gateway.Enabled() {
		if err := h.system.AddDefaultRoute(ctx, h.iface, c.Gateway.Std()); err != nil {
			return err
		}
	}

	var nameservers []net.IP
	for _, ns := range c.EnabledNameservers() {
		nameservers = append(nameservers, ns.Std())
	}
	return h.system.WriteResolvConf(ctx, nameservers)
}

// off leaves the interface down as the baseline left it.
func (h *Handler) off(ctx context.Context, line *command.Line, phase conf.Phase) error {
	if err := command.ParseBare(line); err != nil {
		return err
	}
	if phase == conf.Force {
		h.logger.InfoContext(ctx, "Interface left down", "interface", h.iface)
	}
	return nil
}

func (h *Handler) allow(ctx context.Context, line *command.Line, phase conf.Phase) error {
	c, err := command.ParseAllow(line)
	if err != nil {
		return err
	}
	if phase != conf.Force {
		return nil
	}
	return h.system.AllowSource(ctx, c.CIDR())
}
