package all

import (
	_ "github.com/veesix-networks/setman/pkg/handlers/conf/clock"
	_ "github.com/veesix-networks/setman/pkg/handlers/conf/confirm"
	_ "github.com/veesix-networks/setman/pkg/handlers/conf/network"
	_ "github.com/veesix-networks/setman/pkg/handlers/conf/serial"
	_ "github.com/veesix-networks/setman/pkg/handlers/conf/syslog"
	_ "github.com/veesix-networks/setman/pkg/handlers/conf/users"
)
