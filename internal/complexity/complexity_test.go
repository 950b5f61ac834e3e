// internal/complexity/complexity_test.go
package complexity_test

import (
	"testing"

	"github.com/dsablic/mergeplan/internal/complexity"
)

func TestMeasureGo(t *testing.T) {
	src := `package main

import "fmt"

// main prints a greeting
func main() {
	for i := 0; i < 3; i++ {
		if i%2 == 0 {
			fmt.Println("even")
		}
	}
}
`
	m := complexity.New().Measure("cmd/app/main.go", []byte(src))
	if m.Language != "Go" {
		t.Errorf("expected Go, got %q", m.Language)
	}
	if m.Complexity == 0 {
		t.Error("expected complexity > 0")
	}
	if m.Code == 0 {
		t.Error("expected code lines > 0")
	}
	if m.Vendored {
		t.Error("cmd/app/main.go should not be vendored")
	}
}

func TestMeasureSimplerFileScoresLower(t *testing.T) {
	meter := complexity.New()
	simple := meter.Measure("a.py", []byte("print('hi')\n"))
	branchy := meter.Measure("b.py", []byte(`def f(x):
    if x:
        for i in range(x):
            while i:
                i -= 1
    elif x == 0:
        return 1
    return 0
`))
	if simple.Language != "Python" || branchy.Language != "Python" {
		t.Fatalf("expected Python, got %q and %q", simple.Language, branchy.Language)
	}
	if branchy.Complexity <= simple.Complexity {
		t.Errorf("expected branchy file to score higher: %d <= %d", branchy.Complexity, simple.Complexity)
	}
}

func TestMeasureVendored(t *testing.T) {
	m := complexity.New().Measure("vendor/github.com/x/y/y.go", []byte("package y\n"))
	if !m.Vendored {
		t.Error("expected vendor/ path to be flagged")
	}
}

func TestMeasureUnknownExtension(t *testing.T) {
	m := complexity.New().Measure("data.zzzunknown", []byte("just words\n"))
	if m.Complexity != 0 {
		t.Errorf("expected zero complexity, got %d", m.Complexity)
	}
}
