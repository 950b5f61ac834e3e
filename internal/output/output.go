// internal/output/output.go
package output

import (
	"io"

	"github.com/dsablic/mergeplan/internal/errs"
	"github.com/dsablic/mergeplan/internal/model"
)

// Write renders report to w in the named format: json, yaml or markdown.
func Write(w io.Writer, format string, report model.Report) error {
	switch format {
	case "json":
		return WriteJSON(w, report)
	case "yaml":
		return WriteYAML(w, report)
	case "markdown":
		return WriteMarkdown(w, report)
	}
	return errs.InvalidInput("unknown output format %q", format)
}
