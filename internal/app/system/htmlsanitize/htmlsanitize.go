// Package htmlsanitize cleans admin-supplied HTML before it is stored and
// later served to the public site.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// ugc is the user-generated-content policy plus table markup and a few
// inline formatting tags the about section uses.
func ugc() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowElements("u", "s", "sub", "sup", "mark")
		p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
		p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tr", "td", "th")
		policy = p
	})
	return policy
}

// Sanitize strips scripts, event handlers, frames, styles and unsafe URLs.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc().Sanitize(s)
}

// IsPlainText reports whether s contains no markup.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}

// PlainTextToHTML escapes s and turns blank-line separated blocks into
// paragraphs and single newlines into <br>.
func PlainTextToHTML(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
	if s == "" {
		return ""
	}
	var b strings.Builder
	for _, block := range strings.Split(s, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(block), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

// Prepare returns the stored form of an about text: plain text becomes
// paragraphs, markup is sanitized.
func Prepare(s string) string {
	s = strings.TrimSpace(s)
	if IsPlainText(s) {
		return PlainTextToHTML(s)
	}
	return Sanitize(s)
}
