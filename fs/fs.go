// Package appfs holds the files embedded in the binary.
package appfs

import (
	"embed"
	"io"
	"os"
)

//go:embed seeds
var FS embed.FS

const (
	UsersSeed  = "seeds/users.yaml"
	RosterSeed = "seeds/roster.yaml"
)

// Open opens `path` from disk, or the embedded file `embedded` when path is empty.
func Open(path, embedded string) (io.ReadCloser, error) {
	if path != "" {
		return os.Open(path)
	}
	return FS.Open(embedded)
}
