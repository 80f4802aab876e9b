package answer

import (
	"strings"
	"unicode"
)

// Clean strips markdown artifacts from a raw reply.
//
// The passes run in a fixed order: every "##", then every "**", then the
// single characters * _ ~ and backtick, then surrounding whitespace. A "*"
// that opens a line and is followed by a space is a bullet marker and stays;
// leading whitespace of the whole reply is dropped first so an indented
// opening bullet still counts. The sequence repeats until the text is
// stable, so Clean is idempotent.
func Clean(raw string) string {
	s := raw
	for {
		next := cleanOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

func cleanOnce(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	s = strings.ReplaceAll(s, "##", "")
	s = strings.ReplaceAll(s, "**", "")
	s = stripMarkup(s)
	return strings.TrimSpace(s)
}

func stripMarkup(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '*':
			if isBulletMarker(s, i) {
				b.WriteByte(c)
			}
		case '_', '~', '`':
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isBulletMarker(s string, i int) bool {
	lineStart := i == 0 || s[i-1] == '\n'
	return lineStart && i+1 < len(s) && s[i+1] == ' '
}
