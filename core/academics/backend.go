package academics

import (
	"context"
	"time"
)

// Snapshot is a read-only copy of a workspace grid handed to the backend hooks.
type Snapshot struct {
	Owner    string // username of the workspace owner
	FileName string
	Headers  []string
	Rows     [][]Value
	TakenAt  time.Time
}

// Grid rebuilds a grid from the snapshot.
func (s Snapshot) Grid() *Grid {
	return NewGrid(s.Headers, s.Rows)
}

// Backend receives the imported and exported data.
// Failures are reported to the caller but never roll back the workspace.
type Backend interface {
	SubmitImport(ctx context.Context, snap Snapshot) error
	SubmitExport(ctx context.Context, snap Snapshot) error
}
