package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/chatnow/internal/render"
	"github.com/ppiankov/chatnow/internal/result"
)

func exportMarkdown(r *result.Reply, metadata ExportMetadata, w io.Writer) error {
	var b strings.Builder

	b.WriteString("# chatnow reply\n\n")
	fmt.Fprintf(&b, "_Generated %s by chatnow %s, model %s_\n\n",
		metadata.GeneratedAt.Format("2006-01-02 15:04:05 UTC"), metadata.ChatnowVersion, r.Model)

	b.WriteString("## Message\n\n")
	for _, line := range strings.Split(r.Message, "\n") {
		b.WriteString("> ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n## Reply\n\n")
	for _, s := range r.Segments {
		switch s.Kind {
		case render.KindBullet:
			fmt.Fprintf(&b, "- %s\n", s.Text)
		case render.KindLink:
			fmt.Fprintf(&b, "<%s>", s.Text)
		default:
			b.WriteString(s.Text)
		}
	}
	if !render.IsList(r.Segments) {
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
