// internal/complexity/complexity.go
package complexity

import (
	"path"
	"sync"

	"github.com/boyter/scc/v3/processor"
	"github.com/go-enry/go-enry/v2"
)

var initOnce sync.Once

// Measure is the static profile of one file.
type Measure struct {
	Language   string
	Complexity int64
	Code       int64
	Vendored   bool
	Binary     bool
}

// Meter measures single files with scc's processor and go-enry.
type Meter struct{}

// New creates a Meter. scc's ProcessConstants runs exactly once, even when
// meters are created concurrently.
func New() *Meter {
	initOnce.Do(func() {
		processor.ProcessConstants()
	})
	return &Meter{}
}

// Measure profiles content as if it were stored at filePath. Files scc does
// not recognise fall back to go-enry for the language and report zero
// complexity.
func (m *Meter) Measure(filePath string, content []byte) Measure {
	res := Measure{Vendored: enry.IsVendor(filePath)}
	name := path.Base(filePath)

	possibleLanguages, _ := processor.DetectLanguage(name)
	if len(possibleLanguages) == 0 {
		res.Language = enry.GetLanguage(name, content)
		return res
	}

	job := &processor.FileJob{
		Filename:          name,
		Content:           content,
		Bytes:             int64(len(content)),
		PossibleLanguages: possibleLanguages,
	}
	job.Language = processor.DetermineLanguage(job.Filename, job.Language, job.PossibleLanguages, job.Content)
	if job.Language == "" {
		res.Language = enry.GetLanguage(name, content)
		return res
	}

	processor.CountStats(job)
	res.Language = job.Language
	if job.Binary {
		res.Binary = true
		return res
	}
	res.Complexity = job.Complexity
	res.Code = job.Code
	return res
}
