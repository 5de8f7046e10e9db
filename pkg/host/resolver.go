package host

import (
	"bytes"
	"context"
	"fmt"
	"net"

	"github.com/veesix-networks/setman/pkg/atomicfile"
)

func (l *Linux) WriteResolvConf(ctx context.Context, nameservers []net.IP) error {
	var buf bytes.Buffer
	for _, ns := range nameservers {
		fmt.Fprintf(&buf, "nameserver %s\n", ns)
	}

	if err := atomicfile.WriteFile(l.cfg.Paths.ResolvConf, &buf, 0644); err != nil {
		return opError("write resolver configuration", err)
	}
	l.logger.InfoContext(ctx, "Resolver configured", "path", l.cfg.Paths.ResolvConf, "nameservers", len(nameservers))
	return nil
}
