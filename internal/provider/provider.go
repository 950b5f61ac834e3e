// internal/provider/provider.go
package provider

import (
	"context"
	"time"

	"github.com/dsablic/mergeplan/internal/model"
)

// GitData is the read-only view of a repository the analyzers are fed from.
// The repository location is bound when the implementation is constructed.
// Histories are returned newest first.
type GitData interface {
	LastCommit(ctx context.Context, branch string) (*model.Commit, error)
	CommitCount(ctx context.Context, branch string) (int, error)
	MergeBase(ctx context.Context, branchA, branchB string) (string, error)
	CommitsInRange(ctx context.Context, branch string, start, end time.Time) ([]model.Commit, error)
	FileHistory(ctx context.Context, branch, path string) ([]model.Commit, error)
	// ChangedFiles lists the paths changed on toRef since its common
	// ancestor with fromRef.
	ChangedFiles(ctx context.Context, fromRef, toRef string) ([]string, error)
}

// ContentReader extends GitData with file contents at a ref.
type ContentReader interface {
	FileContent(ctx context.Context, ref, path string) ([]byte, error)
}

// BranchLister lists local branch names.
type BranchLister interface {
	Branches(ctx context.Context) ([]string, error)
}
