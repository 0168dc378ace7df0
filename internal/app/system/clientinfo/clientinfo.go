// Package clientinfo derives the analytics fields of a click from the
// request transport. Nothing here is taken from the request body, so a
// client can only choose which link it clicked.
package clientinfo

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/portfolio/internal/domain/models"
	"github.com/google/uuid"
	"github.com/mssola/useragent"
	"go.uber.org/zap"
)

// Device classes.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
)

// Unknown is reported for a browser or OS the parser cannot name.
const Unknown = "Unknown"

// Locator maps an IP to a coarse location.
type Locator interface {
	Locate(ip net.IP) (models.Location, error)
}

// Resolver builds click events from requests.
type Resolver struct {
	geo   Locator
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

// NewResolver returns a Resolver. A nil Locator disables geolocation.
func NewResolver(geo Locator, logger *zap.Logger) *Resolver {
	if geo == nil {
		geo = NoLocation{}
	}
	return &Resolver{
		geo:   geo,
		log:   logger,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Event returns the click event for r.
func (res *Resolver) Event(r *http.Request) models.ClickEvent {
	ip := IP(r)
	raw := r.UserAgent()
	browser, os, device := ParseUserAgent(raw)

	return models.ClickEvent{
		ID:        res.newID(),
		IP:        ip,
		UserAgent: raw,
		Browser:   browser,
		OS:        os,
		Device:    device,
		Location:  res.locate(ip),
		Referrer:  r.Referer(),
		Timestamp: res.now().UTC(),
	}
}

func (res *Resolver) locate(raw string) models.Location {
	ip := net.ParseIP(raw)
	if ip == nil || !routable(ip) {
		return models.Location{}
	}
	loc, err := res.geo.Locate(ip)
	if err != nil {
		// A missing location never fails the click.
		res.log.Debug("geoip lookup failed", zap.String("ip", raw), zap.Error(err))
		return models.Location{}
	}
	return loc
}

func routable(ip net.IP) bool {
	return !(ip.IsPrivate() || ip.IsLoopback() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast())
}

// IP extracts the client IP. Forwarding headers are only believed when
// the direct peer is a trusted proxy; X-Forwarded-For is then walked from
// the right, skipping trusted hops, so a client cannot pick its own key by
// prepending values. X-Real-IP is the fallback, then the peer address.
func IP(r *http.Request) string {
	peer := remoteHost(r.RemoteAddr)
	if !isTrusted(peer) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		leftmost := ""
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			leftmost = hop
			if !isTrusted(hop) {
				return hop
			}
		}
		if leftmost != "" {
			return leftmost
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// ParseUserAgent returns the browser name, OS name, and device class of a
// User-Agent header. Requests without one are treated as bots.
func ParseUserAgent(raw string) (browser, os, device string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unknown, Unknown, DeviceBot
	}

	ua := useragent.New(raw)
	browser, _ = ua.Browser()
	if browser == "" {
		browser = Unknown
	}
	os = ua.OSInfo().Name
	if os == "" {
		os = Unknown
	}

	switch {
	case ua.Bot():
		device = DeviceBot
	case isTablet(ua, raw):
		device = DeviceTablet
	case ua.Mobile():
		device = DeviceMobile
	default:
		device = DeviceDesktop
	}
	return browser, os, device
}

func isTablet(ua *useragent.UserAgent, raw string) bool {
	if ua.Platform() == "iPad" || strings.Contains(raw, "iPad") || strings.Contains(raw, "Tablet") {
		return true
	}
	// Android tablets omit the "Mobile" token that phones send.
	return strings.Contains(raw, "Android") && !strings.Contains(raw, "Mobile")
}
