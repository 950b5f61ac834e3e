// internal/narrative/narrative.go
package narrative

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dsablic/mergeplan/internal/model"
	"github.com/dsablic/mergeplan/internal/output"
)

// supportedCLIs is the ordered list of AI CLI tools we can invoke.
var supportedCLIs = []string{"claude", "codex", "gemini"}

// SupportedCLIs returns the list of supported AI CLI tool names.
func SupportedCLIs() []string {
	out := make([]string, len(supportedCLIs))
	copy(out, supportedCLIs)
	return out
}

// LookupFunc resolves a command name to its path. Compatible with exec.LookPath.
type LookupFunc func(name string) (string, error)

// DetectCLI finds the first supported AI CLI available on the system PATH.
func DetectCLI() (string, error) {
	return DetectCLIWith(exec.LookPath)
}

// DetectCLIWith finds the first supported AI CLI using the provided lookup function.
func DetectCLIWith(lookup LookupFunc) (string, error) {
	for _, cli := range supportedCLIs {
		if _, err := lookup(cli); err == nil {
			return cli, nil
		}
	}
	return "", errors.Newf("no supported AI CLI found; install one of: %s", strings.Join(supportedCLIs, ", "))
}

// BuildArgs returns the command name and argument slice for a non-interactive
// invocation of the given CLI with the provided prompt.
func BuildArgs(cli, prompt string) (string, []string) {
	switch cli {
	case "codex":
		return "codex", []string{"exec", prompt}
	case "gemini":
		return "gemini", []string{"-p", prompt}
	default: // "claude" and fallback
		return "claude", []string{"-p", prompt}
	}
}

const preamble = `You are a release engineer. You will receive a JSON merge-planning report on stdin describing branches of one git repository. The top-level "operation" field says which analysis was run; exactly one of "overview", "activity", "conflicts" or "recommendation" is present.

Write a concise Markdown briefing for the team that has to merge these branches. Output ONLY pure Markdown: no code fences wrapping the entire output, no preamble, no commentary outside the document. Refer to branches and files by their exact names. Do not invent data that is not in the report.

`

var sections = map[model.Operation]string{
	model.OpOverview: `### Branch overview

1. **Title**: "# Branch Overview"
2. **Summary** (## Summary): one paragraph on how far the branches have diverged, naming the most active branch.
3. **Branch Health** (## Branch Health): group branches by their "health.category" and call out abandoned branches as candidates for deletion.
4. **Divergence** (## Divergence): a table of branch pairs and their merge base, noting pairs that share the same base.
`,
	model.OpActivity: `### Time period activity

1. **Title**: "# Branch Activity"
2. **Summary** (## Summary): the time range, total commits and the branches that did the most work.
3. **Work Mix** (## Work Mix): a table of "commit_type_counts" per branch, with a sentence on what kind of work dominates each branch.
4. **Quiet Branches** (## Quiet Branches): branches with no commits in the range.
`,
	model.OpConflicts: `### File conflict analysis

1. **Title**: "# Conflict Risk"
2. **Summary** (## Summary): how many files were checked and how many show parallel development.
3. **Review Order** (## Review Order): follow "recommended_review_order" exactly, one bullet per file with its risk level and the branch pairs involved.
`,
	model.OpRecommend: `### Merge recommendation

1. **Title**: "# Merge Plan"
2. **Recommendation** (## Recommendation): the recommended base, the approach and the comparison baseline, with the reasoning.
3. **Hotspots** (## Hotspots): a table of hotspots with their branches, risk, language and complexity.
4. **Procedure** (## Procedure): the steps as a numbered list, adding file names from the hotspots where a step mentions conflicts.
`,
}

// DefaultPrompt returns a built-in prompt that instructs an AI CLI to turn
// a JSON report of the given operation into a narrative briefing. An empty
// operation includes instructions for every operation. If extra is non-empty
// it is appended as additional instructions.
func DefaultPrompt(op model.Operation, extra string) string {
	var b strings.Builder
	b.WriteString(preamble)

	if s, ok := sections[op]; ok {
		b.WriteString(s)
	} else {
		for _, o := range []model.Operation{model.OpOverview, model.OpActivity, model.OpConflicts, model.OpRecommend} {
			b.WriteString(sections[o])
			b.WriteString("\n")
		}
	}

	if extra != "" {
		b.WriteString("\n### Additional Instructions\n\n")
		b.WriteString(extra)
		b.WriteString("\n")
	}

	return b.String()
}

// Render encodes report as JSON and has cli turn it into Markdown.
func Render(ctx context.Context, cli string, report model.Report, extra string) (string, error) {
	var buf bytes.Buffer
	if err := output.WriteJSON(&buf, report); err != nil {
		return "", errors.Wrap(err, "encode report")
	}
	return Generate(ctx, cli, buf.Bytes(), DefaultPrompt(report.Operation, extra))
}

// Generate runs the specified AI CLI, pipes jsonData to its stdin, and returns
// the generated narrative markdown from stdout.
func Generate(ctx context.Context, cli string, jsonData []byte, prompt string) (string, error) {
	name, args := BuildArgs(cli, prompt)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(jsonData)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg != "" {
			return "", errors.Wrapf(err, "%s failed: %s", cli, errMsg)
		}
		return "", errors.Wrapf(err, "%s failed", cli)
	}

	return stdout.String(), nil
}
