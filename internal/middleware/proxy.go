package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// TrustedProxies installs an IP extractor that honors X-Real-IP and
// X-Forwarded-For only when the direct peer is inside one of the given
// CIDR ranges. The per-IP rate limiter needs real client addresses;
// without this, every caller behind the reverse proxy would share one
// budget, and with a naive extractor any caller could spoof its address
// by sending forwarding headers directly.
func TrustedProxies(e *echo.Echo, trustedCIDRs []string) {
	nets := parseCIDRs(trustedCIDRs)

	e.IPExtractor = func(req *http.Request) string {
		peer := hostOnly(req.RemoteAddr)
		if !containsIP(nets, peer) {
			return peer
		}

		if ip := strings.TrimSpace(req.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
		// X-Forwarded-For is comma separated, client first.
		if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}
		return peer
	}
}

// parseCIDRs drops entries that fail to parse; this runs once at startup
// against operator-supplied config.
func parseCIDRs(cidrs []string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		if _, n, err := net.ParseCIDR(cidr); err == nil {
			nets = append(nets, n)
		}
	}
	return nets
}

func hostOnly(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

func containsIP(nets []*net.IPNet, ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
