package result

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/chatnow/internal/render"
	"gopkg.in/yaml.v3"
)

// ---------- Shared encoding helpers ----------

func PrettyJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func PrettyYAML(v any) (string, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ---------- Reply record ----------

// Reply is one answered message, as printed by ask and written by exports.
type Reply struct {
	ID        string           `json:"id" yaml:"id"`
	Message   string           `json:"message" yaml:"message"`
	Reply     string           `json:"reply" yaml:"reply"`
	Segments  []render.Segment `json:"segments" yaml:"segments"`
	Model     string           `json:"model" yaml:"model"`
	Backend   string           `json:"backend" yaml:"backend"`
	ElapsedMS int64            `json:"elapsed_ms" yaml:"elapsed_ms"`
	CreatedAt time.Time        `json:"created_at" yaml:"created_at"`
}

// NewReply builds a record and derives its segments from the reply text.
func NewReply(id, message, reply, model, backend string, elapsed time.Duration, createdAt time.Time) *Reply {
	return &Reply{
		ID:        id,
		Message:   message,
		Reply:     reply,
		Segments:  render.Render(reply),
		Model:     model,
		Backend:   backend,
		ElapsedMS: elapsed.Milliseconds(),
		CreatedAt: createdAt.UTC(),
	}
}

// ---------- Human renderer ----------

func RenderReplyHuman(w io.Writer, r *Reply, opts render.TerminalOptions) {
	if r == nil || len(r.Segments) == 0 {
		fmt.Fprintln(w, "(empty reply)")
		return
	}
	fmt.Fprintln(w, render.Terminal(r.Segments, opts))
}
