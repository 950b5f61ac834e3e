// internal/ui/progress_test.go
package ui_test

import (
	"strings"
	"testing"

	"github.com/dsablic/mergeplan/internal/ui"
)

func TestPlainProgress(t *testing.T) {
	var messages []string
	p := ui.NewPlainProgress(func(msg string) {
		messages = append(messages, msg)
	})

	p.Update(1, 5, "commit count main")
	p.Update(2, 5, "merge base dev main")
	p.Done(5)

	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[1] != "[2/5] merge base dev main" {
		t.Errorf("unexpected progress line %q", messages[1])
	}
	if !strings.Contains(messages[2], "5 queries") {
		t.Errorf("unexpected done line %q", messages[2])
	}
}

func TestTUIModel(t *testing.T) {
	m := ui.NewTUIModel("Comparing branches")
	if !strings.Contains(m.View(), "Comparing branches") {
		t.Error("expected title in view")
	}

	next, _ := m.Update(ui.ProgressMsg{Completed: 1, Total: 2, Label: "commit count main"})
	if !strings.Contains(next.View(), "1/2") {
		t.Errorf("expected counter in view, got %q", next.View())
	}

	next, _ = next.Update(ui.ProgressMsg{Completed: 2, Total: 2, Label: "commit count dev"})
	next, _ = next.Update(ui.ProgressMsg{Completed: 1, Total: 1, Label: "read app.go on dev"})
	next, cmd := next.Update(ui.DoneMsg{})
	if cmd == nil {
		t.Error("expected quit command on done")
	}
	if !strings.Contains(next.View(), "Ran 3 queries") {
		t.Errorf("expected total across batches, got %q", next.View())
	}
}

func TestIsTTY(t *testing.T) {
	// Just verify it does not panic; the result depends on the test runner
	_ = ui.IsTTY()
}
