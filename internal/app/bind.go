package app

import (
	"net"
	"strings"
)

// DefaultPort is appended to bind addresses given without a port.
const DefaultPort = "8080"

// ParseBind turns the bind argument into a listen address: "host:port" and
// "[v6]:port" pass through, a bare IPv6 address is bracketed, and anything
// else gets DefaultPort.
func ParseBind(bind string) string {
	bind = strings.TrimSpace(bind)

	if strings.Count(bind, ":") == 1 || strings.Contains(bind, "]:") {
		return bind
	}

	if host := strings.Trim(bind, "[]"); net.ParseIP(host) != nil {
		return net.JoinHostPort(host, DefaultPort)
	}

	return bind + ":" + DefaultPort
}
