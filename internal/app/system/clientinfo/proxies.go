// internal/app/system/clientinfo/proxies.go
package clientinfo

import (
	"fmt"
	"net"
	"strings"
	"sync/atomic"
)

// DefaultTrustedProxies covers loopback and private networks, where a
// reverse proxy in front of the app normally lives.
const DefaultTrustedProxies = "127.0.0.0/8,::1/128,10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,fc00::/7"

var trusted atomic.Pointer[[]*net.IPNet]

func init() {
	if err := SetTrustedProxies(DefaultTrustedProxies); err != nil {
		panic(err)
	}
}

// ParseTrustedProxies parses a comma-separated list of CIDRs or bare IPs.
// A blank list trusts nobody.
func ParseTrustedProxies(list string) ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, "/") {
			ip := net.ParseIP(part)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", part)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(part)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", part, err)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

// SetTrustedProxies replaces the set of peers whose forwarding headers
// are believed. It is called once at startup.
func SetTrustedProxies(list string) error {
	nets, err := ParseTrustedProxies(list)
	if err != nil {
		return err
	}
	trusted.Store(&nets)
	return nil
}

func isTrusted(raw string) bool {
	ip := net.ParseIP(strings.TrimSpace(raw))
	if ip == nil {
		return false
	}
	for _, n := range *trusted.Load() {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
