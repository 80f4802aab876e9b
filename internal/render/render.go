// Package render derives display segments from a reply: a bullet list when
// the reply has bullet lines, otherwise text runs with links picked out.
package render

import (
	"regexp"
	"strings"
)

// Kind is the type of a rendered segment.
type Kind string

const (
	KindText   Kind = "text"
	KindLink   Kind = "link"
	KindBullet Kind = "bullet"
)

// Segment is one piece of a rendered reply. For links Text is also the target.
type Segment struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Text string `json:"text" yaml:"text"`
}

var (
	bulletPattern = regexp.MustCompile(`(?m)^\* (.*)$`)

	// Whitespace here follows the Unicode set, not just ASCII.
	urlPattern = regexp.MustCompile(`https?://[^\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]+`)
)

// Render returns the bullet items of reply if it has any, and the link split otherwise.
func Render(reply string) []Segment {
	if reply == "" {
		return nil
	}
	if items := BulletItems(reply); len(items) > 0 {
		segs := make([]Segment, len(items))
		for i, item := range items {
			segs[i] = Segment{Kind: KindBullet, Text: item}
		}
		return segs
	}
	return SplitLinks(reply)
}

// BulletItems returns the trimmed text of every line starting with "* ", in order.
func BulletItems(text string) []string {
	matches := bulletPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	items := make([]string, len(matches))
	for i, m := range matches {
		items[i] = strings.TrimSpace(m[1])
	}
	return items
}

// SplitLinks splits text into plain and link segments, preserving order and adjacency.
func SplitLinks(text string) []Segment {
	var segs []Segment
	last := 0
	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segs = append(segs, Segment{Kind: KindText, Text: text[last:loc[0]]})
		}
		segs = append(segs, Segment{Kind: KindLink, Text: text[loc[0]:loc[1]]})
		last = loc[1]
	}
	if last < len(text) {
		segs = append(segs, Segment{Kind: KindText, Text: text[last:]})
	}
	return segs
}

// IsList reports whether segs came from the bullet path.
func IsList(segs []Segment) bool {
	return len(segs) > 0 && segs[0].Kind == KindBullet
}

// Plain joins segments back into text, one bullet item per line.
func Plain(segs []Segment) string {
	var b strings.Builder
	for i, s := range segs {
		if s.Kind == KindBullet {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("* ")
		}
		b.WriteString(s.Text)
	}
	return b.String()
}
