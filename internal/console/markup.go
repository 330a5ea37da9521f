package console

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
)

// Markup selects how markup in backend text is treated.
type Markup int

const (
	// Escape shows markup literally.
	Escape Markup = iota
	// Allowlist renders a few inline tags as terminal styles and drops the rest.
	Allowlist
)

// ParseMarkup maps a config value to a Markup. Unknown values escape.
func ParseMarkup(s string) Markup {
	if strings.EqualFold(strings.TrimSpace(s), "allowlist") {
		return Allowlist
	}
	return Escape
}

func (m Markup) String() string {
	if m == Allowlist {
		return "allowlist"
	}
	return "escape"
}

// spanClasses maps span class names to colors.
var spanClasses = map[string]lipgloss.Color{
	"error":   lipgloss.Color("#FF0055"),
	"red":     lipgloss.Color("#FF0055"),
	"warning": lipgloss.Color("#FFAA00"),
	"yellow":  lipgloss.Color("#FFAA00"),
	"success": lipgloss.Color("#39FF14"),
	"green":   lipgloss.Color("#39FF14"),
	"info":    lipgloss.Color("#3E7BFA"),
	"blue":    lipgloss.Color("#3E7BFA"),
	"muted":   lipgloss.Color("#6B6B8D"),
}

// Sanitize strips terminal escape sequences and control characters so
// backend text cannot move the cursor or restyle the screen. Tabs and
// newlines become spaces.
func Sanitize(text string) string {
	text = ansi.Strip(text)
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}

// Render turns backend text into styled terminal output.
func Render(text string, mode Markup, base lipgloss.Style) string {
	text = Sanitize(text)
	if mode != Allowlist {
		return base.Render(text)
	}
	return renderAllowlist(text, base)
}

type markState struct {
	tag       string
	bold      bool
	italic    bool
	underline bool
	color     lipgloss.Color
}

func (s markState) style(base lipgloss.Style) lipgloss.Style {
	if s.bold {
		base = base.Bold(true)
	}
	if s.italic {
		base = base.Italic(true)
	}
	if s.underline {
		base = base.Underline(true)
	}
	if s.color != "" {
		base = base.Foreground(s.color)
	}
	return base
}

func renderAllowlist(text string, base lipgloss.Style) string {
	var out strings.Builder
	stack := []markState{{}}
	skipping := 0

	z := html.NewTokenizer(strings.NewReader(text))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return out.String()

		case html.TextToken:
			if skipping > 0 {
				continue
			}
			if t := string(z.Text()); t != "" {
				out.WriteString(stack[len(stack)-1].style(base).Render(t))
			}

		case html.StartTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				skipping++
				continue
			}
			next, ok := openTag(stack[len(stack)-1], tag, hasAttr, z)
			if ok {
				stack = append(stack, next)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && skipping > 0 {
				skipping--
				continue
			}
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].tag == tag {
					stack = stack[:i]
					break
				}
			}
		}
	}
}

// openTag derives the state for an allowlisted tag. Other tags are dropped.
func openTag(cur markState, tag string, hasAttr bool, z *html.Tokenizer) (markState, bool) {
	next := cur
	next.tag = tag
	switch tag {
	case "b", "strong":
		next.bold = true
	case "i", "em":
		next.italic = true
	case "u":
		next.underline = true
	case "span":
		for hasAttr {
			var key, val []byte
			key, val, hasAttr = z.TagAttr()
			if string(key) != "class" {
				continue
			}
			for _, class := range strings.Fields(string(val)) {
				if c, ok := spanClasses[class]; ok {
					next.color = c
				}
			}
		}
	default:
		return cur, false
	}
	return next, true
}
