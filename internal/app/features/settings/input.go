// internal/app/features/settings/input.go
package settings

import (
	"net/url"
	"strings"

	"github.com/dalemusser/portfolio/internal/app/system/authutil"
	"github.com/dalemusser/portfolio/internal/app/system/htmlsanitize"
	"github.com/dalemusser/portfolio/internal/domain/models"
)

// Validation messages.
const (
	MsgSiteNameTooLong = "Site name must be at most 100 characters"
	MsgInvalidContact  = "Contact email must be a valid email address"
	MsgInvalidURL      = "Links must be absolute http or https URLs"
)

const maxSiteName = 100

// UpdateInput is the body of PATCH /api/admin/settings. A nil field is left
// unchanged; an empty string clears it.
type UpdateInput struct {
	SiteName     *string      `json:"site_name"`
	Tagline      *string      `json:"tagline"`
	AboutHTML    *string      `json:"about_html"`
	ContactEmail *string      `json:"contact_email"`
	ResumeURL    *string      `json:"resume_url"`
	Social       *SocialInput `json:"social"`
}

// SocialInput carries the footer links.
type SocialInput struct {
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
	Twitter  string `json:"twitter"`
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func validURL(raw string) bool {
	if raw == "" {
		return true
	}
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Validate returns every problem with in.
func (in UpdateInput) Validate() []string {
	var msgs []string
	if len([]rune(trimmed(in.SiteName))) > maxSiteName {
		msgs = append(msgs, MsgSiteNameTooLong)
	}
	if c := trimmed(in.ContactEmail); c != "" && !authutil.IsValidEmail(c) {
		msgs = append(msgs, MsgInvalidContact)
	}
	links := []string{trimmed(in.ResumeURL)}
	if in.Social != nil {
		links = append(links,
			strings.TrimSpace(in.Social.GitHub),
			strings.TrimSpace(in.Social.LinkedIn),
			strings.TrimSpace(in.Social.Twitter))
	}
	for _, l := range links {
		if !validURL(l) {
			msgs = append(msgs, MsgInvalidURL)
			break
		}
	}
	return msgs
}

// Apply returns s with the fields present in in overwritten. The about
// text is sanitized here so nothing unsafe is ever stored.
func (in UpdateInput) Apply(s models.SiteSettings) models.SiteSettings {
	if in.SiteName != nil {
		s.SiteName = trimmed(in.SiteName)
	}
	if in.Tagline != nil {
		s.Tagline = trimmed(in.Tagline)
	}
	if in.AboutHTML != nil {
		s.AboutHTML = htmlsanitize.Prepare(*in.AboutHTML)
	}
	if in.ContactEmail != nil {
		s.ContactEmail = strings.ToLower(trimmed(in.ContactEmail))
	}
	if in.ResumeURL != nil {
		s.ResumeURL = trimmed(in.ResumeURL)
	}
	if in.Social != nil {
		s.Social = models.SocialLinks{
			GitHub:   strings.TrimSpace(in.Social.GitHub),
			LinkedIn: strings.TrimSpace(in.Social.LinkedIn),
			Twitter:  strings.TrimSpace(in.Social.Twitter),
		}
	}
	return s
}
