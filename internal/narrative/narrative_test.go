// internal/narrative/narrative_test.go
package narrative_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/dsablic/mergeplan/internal/model"
	"github.com/dsablic/mergeplan/internal/narrative"
)

func TestSupportedCLIs(t *testing.T) {
	clis := narrative.SupportedCLIs()
	want := []string{"claude", "codex", "gemini"}

	if len(clis) != len(want) {
		t.Fatalf("expected %d CLIs, got %d", len(want), len(clis))
	}
	for i, name := range want {
		if clis[i] != name {
			t.Errorf("SupportedCLIs()[%d] = %q, want %q", i, clis[i], name)
		}
	}
}

func TestDetectCLI_Fallback(t *testing.T) {
	lookup := func(name string) (string, error) {
		return "", fmt.Errorf("not found: %s", name)
	}

	_, err := narrative.DetectCLIWith(lookup)
	if err == nil {
		t.Fatal("expected error when no CLI is found")
	}
	if !strings.Contains(err.Error(), "no supported AI CLI found") {
		t.Errorf("unexpected error message: %s", err)
	}
}

func TestDetectCLI_FindsClaude(t *testing.T) {
	lookup := func(name string) (string, error) {
		if name == "claude" {
			return "/usr/local/bin/claude", nil
		}
		return "", fmt.Errorf("not found: %s", name)
	}

	cli, err := narrative.DetectCLIWith(lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cli != "claude" {
		t.Errorf("expected claude, got %q", cli)
	}
}

func TestDetectCLI_PrefersOrder(t *testing.T) {
	lookup := func(name string) (string, error) {
		return "/usr/local/bin/" + name, nil
	}

	cli, err := narrative.DetectCLIWith(lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cli != "claude" {
		t.Errorf("expected claude (first in order), got %q", cli)
	}
}

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		cli      string
		prompt   string
		wantName string
		wantArgs []string
	}{
		{
			cli:      "claude",
			prompt:   "analyze this",
			wantName: "claude",
			wantArgs: []string{"-p", "analyze this"},
		},
		{
			cli:      "codex",
			prompt:   "analyze this",
			wantName: "codex",
			wantArgs: []string{"exec", "analyze this"},
		},
		{
			cli:      "gemini",
			prompt:   "analyze this",
			wantName: "gemini",
			wantArgs: []string{"-p", "analyze this"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.cli, func(t *testing.T) {
			name, args := narrative.BuildArgs(tt.cli, tt.prompt)
			if name != tt.wantName {
				t.Errorf("BuildArgs(%q, ...) name = %q, want %q", tt.cli, name, tt.wantName)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("BuildArgs(%q, ...) args len = %d, want %d", tt.cli, len(args), len(tt.wantArgs))
			}
			for i, a := range tt.wantArgs {
				if args[i] != a {
					t.Errorf("BuildArgs(%q, ...) args[%d] = %q, want %q", tt.cli, i, args[i], a)
				}
			}
		})
	}
}

func TestDefaultPromptContainsInstructions(t *testing.T) {
	prompt := narrative.DefaultPrompt(model.OpConflicts, "")

	for _, keyword := range []string{"Markdown", "JSON", "recommended_review_order"} {
		if !strings.Contains(strings.ToLower(prompt), strings.ToLower(keyword)) {
			t.Errorf("DefaultPrompt should mention %q", keyword)
		}
	}
	if strings.Contains(prompt, "# Merge Plan") {
		t.Error("conflicts prompt should not include recommendation instructions")
	}
}

func TestDefaultPromptAllOperations(t *testing.T) {
	prompt := narrative.DefaultPrompt("", "")
	for _, title := range []string{"# Branch Overview", "# Branch Activity", "# Conflict Risk", "# Merge Plan"} {
		if !strings.Contains(prompt, title) {
			t.Errorf("DefaultPrompt should contain %q", title)
		}
	}
}

func TestDefaultPromptAppendsCustom(t *testing.T) {
	custom := "Focus on the release branches only."
	prompt := narrative.DefaultPrompt(model.OpRecommend, custom)

	if !strings.Contains(prompt, custom) {
		t.Error("DefaultPrompt should contain the custom additional instructions")
	}
	if !strings.Contains(prompt, "Additional Instructions") {
		t.Error("DefaultPrompt should contain 'Additional Instructions' header")
	}
}

// fakeCLI puts an executable named claude on PATH that runs script.
func fakeCLI(t *testing.T, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "claude")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("write fake cli: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestRenderPipesReportJSON(t *testing.T) {
	fakeCLI(t, "cat")

	report := model.Report{Operation: model.OpOverview, Repository: "/src/app", Branches: []string{"main"}}
	out, err := narrative.Render(context.Background(), "claude", report, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, `"repository": "/src/app"`) {
		t.Errorf("expected report JSON on stdin, got %q", out)
	}
}

func TestGenerateReportsStderr(t *testing.T) {
	fakeCLI(t, "echo quota exceeded >&2; exit 3")

	_, err := narrative.Generate(context.Background(), "claude", []byte("{}"), "prompt")
	if err == nil {
		t.Fatal("expected error from failing CLI")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("expected stderr in error, got %v", err)
	}
}
