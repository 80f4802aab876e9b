package export

import (
	"encoding/json"
	"io"

	"github.com/ppiankov/chatnow/internal/result"
	"gopkg.in/yaml.v3"
)

// JSONExport wraps the reply with metadata for JSON and YAML output.
type JSONExport struct {
	Metadata ExportMetadata `json:"metadata" yaml:"metadata"`
	Result   *result.Reply  `json:"result" yaml:"result"`
}

// exportJSON exports the reply as JSON with metadata.
func exportJSON(r *result.Reply, metadata ExportMetadata, w io.Writer) error {
	export := JSONExport{
		Metadata: metadata,
		Result:   r,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// exportYAML exports the same document as exportJSON in YAML.
func exportYAML(r *result.Reply, metadata ExportMetadata, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(JSONExport{Metadata: metadata, Result: r}); err != nil {
		return err
	}
	return encoder.Close()
}
