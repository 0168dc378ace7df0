package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/portfolio/internal/app/system/htmlsanitize"
)

func TestSanitize_Preserves(t *testing.T) {
	inputs := []string{
		"",
		"Hello, World!",
		"<p><strong>Bold</strong> and <em>italic</em></p>",
		"<ul><li>Item 1</li><li>Item 2</li></ul>",
		"<ol><li>First</li><li>Second</li></ol>",
		"<blockquote>A quote</blockquote>",
		"<h1>Heading 1</h1><h2>Heading 2</h2>",
		"<pre><code>func main() {}</code></pre>",
		"<u>underline</u> <s>strike</s> <sub>sub</sub> <sup>sup</sup> <mark>mark</mark>",
		"<table><thead><tr><th>Header</th></tr></thead><tbody><tr><td>Cell</td></tr></tbody></table>",
	}
	for _, in := range inputs {
		if got := htmlsanitize.Sanitize(in); got != in {
			t.Errorf("Sanitize(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestSanitize_Removes(t *testing.T) {
	tests := []struct {
		in      string
		absent  string
		present string
	}{
		{"<p>Hello</p><script>alert('xss')</script>", "script", "<p>Hello</p>"},
		{`<button onclick="alert('xss')">Click</button>`, "onclick", "Click"},
		{`<a href="javascript:alert('xss')">Click</a>`, "javascript:", "Click"},
		{`<p>Content</p><iframe src="https://evil.com"></iframe>`, "iframe", "Content"},
		{`<style>body { color: red; }</style><p>Text</p>`, "<style>", "Text"},
	}
	for _, tt := range tests {
		got := htmlsanitize.Sanitize(tt.in)
		if strings.Contains(got, tt.absent) {
			t.Errorf("Sanitize(%q) = %q, still contains %q", tt.in, got, tt.absent)
		}
		if !strings.Contains(got, tt.present) {
			t.Errorf("Sanitize(%q) = %q, lost %q", tt.in, got, tt.present)
		}
	}
}

func TestSanitize_TableAttributesAndLinks(t *testing.T) {
	got := htmlsanitize.Sanitize(`<table class="t"><tr><td colspan="2" rowspan="2">Cell</td></tr></table>`)
	for _, want := range []string{`class="t"`, `colspan="2"`, `rowspan="2"`} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %s preserved, got %q", want, got)
		}
	}

	got = htmlsanitize.Sanitize(`<a href="https://example.com">Link</a>`)
	if !strings.Contains(got, "https://example.com") {
		t.Errorf("expected safe link preserved, got %q", got)
	}
}

func TestIsPlainText(t *testing.T) {
	tests := map[string]bool{
		"":             true,
		"Hello":        true,
		"5 < 10":       true,
		"5 > 3":        true,
		"<p>Hello</p>": false,
	}
	for in, want := range tests {
		if got := htmlsanitize.IsPlainText(in); got != want {
			t.Errorf("IsPlainText(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPlainTextToHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Hello, World!", "<p>Hello, World!</p>"},
		{"Line 1\nLine 2", "<p>Line 1<br>Line 2</p>"},
		{"One\r\n\r\nTwo", "<p>One</p><p>Two</p>"},
		{"A & B", "<p>A &amp; B</p>"},
		{"x < y", "<p>x &lt; y</p>"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.PlainTextToHTML(tt.in); got != tt.want {
			t.Errorf("PlainTextToHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrepare(t *testing.T) {
	if got := htmlsanitize.Prepare("  I build things.\n\nMostly in Go.  "); got != "<p>I build things.</p><p>Mostly in Go.</p>" {
		t.Errorf("plain text: got %q", got)
	}
	if got := htmlsanitize.Prepare("<p>Hi</p><script>x()</script>"); got != "<p>Hi</p>" {
		t.Errorf("markup: got %q", got)
	}
}
