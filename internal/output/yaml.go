// internal/output/yaml.go
package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dsablic/mergeplan/internal/model"
)

// WriteYAML writes the report as a YAML document to w.
func WriteYAML(w io.Writer, report model.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
