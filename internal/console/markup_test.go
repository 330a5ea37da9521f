package console

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestParseMarkup(t *testing.T) {
	assert.Equal(t, Escape, ParseMarkup(""))
	assert.Equal(t, Escape, ParseMarkup("escape"))
	assert.Equal(t, Escape, ParseMarkup("html"))
	assert.Equal(t, Allowlist, ParseMarkup("allowlist"))
	assert.Equal(t, Allowlist, ParseMarkup(" Allowlist "))
	assert.Equal(t, "allowlist", Allowlist.String())
	assert.Equal(t, "escape", Escape.String())
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"color codes", "\x1b[31mred\x1b[0m text", "red text"},
		{"cursor movement", "a\x1b[2Jb\x1b[Hc", "abc"},
		{"bell and backspace", "ding\x07\x08!", "ding!"},
		{"tabs and newlines", "a\tb\nc", "a b c"},
		{"carriage return", "progress\r", "progress"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestRender_EscapeShowsMarkupLiterally(t *testing.T) {
	out := Render(`<b>bold</b> <script>alert(1)</script>`, Escape, lipgloss.NewStyle())
	assert.Equal(t, `<b>bold</b> <script>alert(1)</script>`, out)
}

func TestRender_Allowlist(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"allowed tags keep text", "<b>bold</b> and <em>em</em>", "bold and em"},
		{"span with class", `<span class="error">boom</span>`, "boom"},
		{"unknown tags dropped", `<div><a href="x">link</a></div>`, "link"},
		{"script content removed", "ok<script>alert(1)</script>!", "ok!"},
		{"style content removed", "<style>p{}</style>text", "text"},
		{"entities decoded", "a &lt; b &amp;&amp; c", "a < b && c"},
		{"unclosed tag", "<b>never closed", "never closed"},
		{"stray close", "text</i>", "text"},
		{"self closing", "line<br/>break", "linebreak"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.in, Allowlist, lipgloss.NewStyle()))
		})
	}
}

func TestOpenTag_Styles(t *testing.T) {
	tests := []struct {
		in    string
		check func(markState) bool
	}{
		{"<b>x</b>", func(s markState) bool { return s.bold }},
		{"<strong>x</strong>", func(s markState) bool { return s.bold }},
		{"<i>x</i>", func(s markState) bool { return s.italic }},
		{"<em>x</em>", func(s markState) bool { return s.italic }},
		{"<u>x</u>", func(s markState) bool { return s.underline }},
		{`<span class="ok warning">x</span>`, func(s markState) bool { return s.color == spanClasses["warning"] }},
		{`<span id="warning">x</span>`, func(s markState) bool { return s.color == "" }},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			state, ok := firstState(tt.in)
			assert.True(t, ok)
			assert.True(t, tt.check(state))
		})
	}
}

func TestOpenTag_RejectsOtherTags(t *testing.T) {
	_, ok := firstState(`<img src="x">`)
	assert.False(t, ok)
}

// firstState returns the state produced by the first start tag in s.
func firstState(s string) (markState, bool) {
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			return openTag(markState{}, string(name), hasAttr, z)
		case html.ErrorToken:
			return markState{}, false
		}
	}
}
