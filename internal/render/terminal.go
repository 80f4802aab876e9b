package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // Blue
			Underline(true)

	bulletStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Dim gray
)

// TerminalOptions controls terminal rendering.
type TerminalOptions struct {
	Width      int  // wrap width, 0 = no wrapping
	Hyperlinks bool // emit OSC 8 so terminals open links in the browser
}

// Terminal renders segments for a terminal.
func Terminal(segs []Segment, opts TerminalOptions) string {
	var b strings.Builder
	for i, s := range segs {
		switch s.Kind {
		case KindBullet:
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(bulletStyle.Render("•"))
			b.WriteString(" ")
			b.WriteString(s.Text)
		case KindLink:
			b.WriteString(renderLink(s.Text, opts.Hyperlinks))
		default:
			b.WriteString(s.Text)
		}
	}

	out := b.String()
	if opts.Width > 0 {
		out = lipgloss.NewStyle().Width(opts.Width).Render(out)
	}
	return out
}

func renderLink(url string, hyperlink bool) string {
	styled := linkStyle.Render(url)
	if !hyperlink {
		return styled
	}
	return "\x1b]8;;" + url + "\x1b\\" + styled + "\x1b]8;;\x1b\\"
}
