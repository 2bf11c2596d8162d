package academics

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrOutOfRange       = errors.New("cell out of range")
	ErrImportInProgress = errors.New("an import is already in progress")
	ErrBlankColumnName  = errors.New("column name cannot be empty")
	ErrEmptySheet       = errors.New("no rows")
)

// ImportDecodeError reports a file that could not be decoded into a grid.
// The workspace is left untouched.
type ImportDecodeError struct {
	FileName string
	Err      error
}

func (e *ImportDecodeError) Error() string {
	return fmt.Sprintf("decoding %q: %v", e.FileName, e.Err)
}

func (e *ImportDecodeError) Unwrap() error { return e.Err }

// ExportEncodeError reports a grid that could not be encoded.
type ExportEncodeError struct {
	Err error
}

func (e *ExportEncodeError) Error() string {
	return fmt.Sprintf("encoding export: %v", e.Err)
}

func (e *ExportEncodeError) Unwrap() error { return e.Err }

func outOfRange(what string, idx, n int) error {
	return errors.Wrapf(ErrOutOfRange, "%s %d (have %d)", what, idx, n)
}
