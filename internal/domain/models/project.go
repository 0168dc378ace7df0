// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LinkType identifies one of the outbound links tracked per project.
// The string value is the wire name used by the public API.
type LinkType string

const (
	LinkLiveDemo       LinkType = "liveDemo"
	LinkGitHubFrontend LinkType = "githubFrontend"
	LinkGitHubBackend  LinkType = "githubBackend"
	LinkGitHubMobile   LinkType = "githubMobile"
)

// LinkTypes lists every tracked link category in display order.
var LinkTypes = []LinkType{LinkLiveDemo, LinkGitHubFrontend, LinkGitHubBackend, LinkGitHubMobile}

// ParseLinkType validates a wire name.
func ParseLinkType(s string) (LinkType, bool) {
	for _, lt := range LinkTypes {
		if string(lt) == s {
			return lt, true
		}
	}
	return "", false
}

// Field returns the bson key of the category inside click_stats.
func (lt LinkType) Field() string {
	switch lt {
	case LinkLiveDemo:
		return "live_demo"
	case LinkGitHubFrontend:
		return "github_frontend"
	case LinkGitHubBackend:
		return "github_backend"
	case LinkGitHubMobile:
		return "github_mobile"
	}
	return ""
}

// MaxRetainedClicks bounds the per-category recent-event window stored on
// the project document. Counts keep growing past it.
const MaxRetainedClicks = 100

// Project is one portfolio entry with its embedded click analytics.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"-"` // lowercase, diacritics-stripped
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	TechStack   []string           `bson:"tech_stack,omitempty" json:"tech_stack,omitempty"`
	ImageURL    string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Links       ProjectLinks       `bson:"links" json:"links"`
	Featured    bool               `bson:"featured" json:"featured"`
	Order       int                `bson:"order" json:"order"`

	ClickStats ClickStats `bson:"click_stats" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ProjectLinks holds the outbound URLs that click tracking counts.
type ProjectLinks struct {
	LiveDemo       string `bson:"live_demo,omitempty" json:"liveDemo,omitempty"`
	GitHubFrontend string `bson:"github_frontend,omitempty" json:"githubFrontend,omitempty"`
	GitHubBackend  string `bson:"github_backend,omitempty" json:"githubBackend,omitempty"`
	GitHubMobile   string `bson:"github_mobile,omitempty" json:"githubMobile,omitempty"`
}

// ClickStats is the analytics sub-document of a project.
// TotalClicks always equals the sum of the four category counts.
type ClickStats struct {
	LiveDemo       LinkClicks `bson:"live_demo" json:"liveDemo"`
	GitHubFrontend LinkClicks `bson:"github_frontend" json:"githubFrontend"`
	GitHubBackend  LinkClicks `bson:"github_backend" json:"githubBackend"`
	GitHubMobile   LinkClicks `bson:"github_mobile" json:"githubMobile"`
	TotalClicks    int        `bson:"total_clicks" json:"totalClicks"`
}

// For returns the stats of a single category.
func (s *ClickStats) For(lt LinkType) *LinkClicks {
	switch lt {
	case LinkLiveDemo:
		return &s.LiveDemo
	case LinkGitHubFrontend:
		return &s.GitHubFrontend
	case LinkGitHubBackend:
		return &s.GitHubBackend
	case LinkGitHubMobile:
		return &s.GitHubMobile
	}
	return nil
}

// LinkClicks is the cumulative count plus the capped recent-event window.
type LinkClicks struct {
	Count  int          `bson:"count" json:"count"`
	Clicks []ClickEvent `bson:"clicks" json:"clicks"`
}

// ClickEvent is one recorded click. Every field is derived on the server
// from the request transport.
type ClickEvent struct {
	ID        string    `bson:"id" json:"id"`
	IP        string    `bson:"ip" json:"ip"`
	UserAgent string    `bson:"user_agent" json:"userAgent"`
	Browser   string    `bson:"browser" json:"browser"`
	OS        string    `bson:"os" json:"os"`
	Device    string    `bson:"device" json:"device"`
	Location  Location  `bson:"location" json:"location"`
	Referrer  string    `bson:"referrer,omitempty" json:"referrer,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Location is the coarse geolocation derived from a client IP.
type Location struct {
	Country string `bson:"country,omitempty" json:"country,omitempty"`
	Region  string `bson:"region,omitempty" json:"region,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
}

// EmptyClickStats is the zero-valued analytics block written on project creation.
// Clicks slices are non-nil so $push always targets an array.
func EmptyClickStats() ClickStats {
	return ClickStats{
		LiveDemo:       LinkClicks{Clicks: []ClickEvent{}},
		GitHubFrontend: LinkClicks{Clicks: []ClickEvent{}},
		GitHubBackend:  LinkClicks{Clicks: []ClickEvent{}},
		GitHubMobile:   LinkClicks{Clicks: []ClickEvent{}},
	}
}
