package academics

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/semaphore"

	"github.com/trezcool/academia/core"
)

const defaultExportBase = "sheet"

type (
	// Workspace is the editor state of one session: the current grid, the file it came
	// from and the grid as imported. All methods are safe for concurrent use.
	Workspace struct {
		owner   string
		codec   Codec
		backend Backend
		logger  core.Logger
		nowFunc func() time.Time

		importing *semaphore.Weighted

		mu       sync.Mutex
		fileName string
		grid     *Grid
		original *Grid
	}

	ImportResult struct {
		Grid      *Grid
		Submitted bool
	}

	ExportResult struct {
		FileName    string
		ContentType string
		Data        []byte
		Submitted   bool
	}

	Status struct {
		FileName string `json:"file_name"`
		Loaded   bool   `json:"loaded"`
		Columns  int    `json:"columns"`
		Rows     int    `json:"rows"`
	}
)

func NewWorkspace(owner string, codec Codec, backend Backend, logger core.Logger) *Workspace {
	return &Workspace{
		owner:     owner,
		codec:     codec,
		backend:   backend,
		logger:    logger,
		nowFunc:   time.Now,
		importing: semaphore.NewWeighted(1),
		grid:      &Grid{Headers: []string{}, Rows: [][]Cell{}},
		original:  &Grid{Headers: []string{}, Rows: [][]Cell{}},
	}
}

// Import decodes `r` and replaces the grid with its content, then submits it to the backend.
// On decode failure the grid is left untouched and an *ImportDecodeError is returned.
// A concurrent Import on the same workspace fails with ErrImportInProgress.
func (ws *Workspace) Import(ctx context.Context, fileName string, r io.Reader) (ImportResult, error) {
	if !ws.importing.TryAcquire(1) {
		return ImportResult{}, ErrImportInProgress
	}
	defer ws.importing.Release(1)

	g, err := ws.codec.Decode(r)
	if err != nil {
		return ImportResult{}, &ImportDecodeError{FileName: fileName, Err: err}
	}

	ws.mu.Lock()
	ws.fileName = fileName
	ws.grid = g
	ws.original = g.Clone()
	snap := ws.snapshot()
	res := ImportResult{Grid: g.Clone()}
	ws.mu.Unlock()

	if err := ws.backend.SubmitImport(ctx, snap); err != nil {
		ws.logger.Error(errors.Wrap(err, "submitting import").Error(), err)
	} else {
		res.Submitted = true
	}
	return res, nil
}

// Export encodes the current grid. The grid is not modified.
func (ws *Workspace) Export(ctx context.Context) (ExportResult, error) {
	ws.mu.Lock()
	g := ws.grid.Clone()
	snap := ws.snapshot()
	name := ws.exportFileName()
	ws.mu.Unlock()

	var buf bytes.Buffer
	if err := ws.codec.Encode(&buf, g); err != nil {
		return ExportResult{}, &ExportEncodeError{Err: err}
	}
	res := ExportResult{
		FileName:    name,
		ContentType: ws.codec.ContentType(),
		Data:        buf.Bytes(),
	}

	if err := ws.backend.SubmitExport(ctx, snap); err != nil {
		ws.logger.Error(errors.Wrap(err, "submitting export").Error(), err)
	} else {
		res.Submitted = true
	}
	return res, nil
}

// Grid returns a copy of the current grid.
func (ws *Workspace) Grid() *Grid {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.grid.Clone()
}

// Snapshot returns a copy of the current values.
func (ws *Workspace) Snapshot() Snapshot {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.snapshot()
}

func (ws *Workspace) Status() Status {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return Status{
		FileName: ws.fileName,
		Loaded:   ws.fileName != "",
		Columns:  ws.grid.ColumnCount(),
		Rows:     ws.grid.RowCount(),
	}
}

// ExportFileName is the name the next export will be saved as.
func (ws *Workspace) ExportFileName() string {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.exportFileName()
}

func (ws *Workspace) SetCellValue(row, col int, v Value) (*Grid, error) {
	return ws.mutate(func(g *Grid) error { return g.SetCellValue(row, col, v) })
}

func (ws *Workspace) ToggleEditing(row, col int) (*Grid, error) {
	return ws.mutate(func(g *Grid) error { return g.ToggleEditing(row, col) })
}

func (ws *Workspace) CommitEdit(row, col int, v Value) (*Grid, error) {
	return ws.mutate(func(g *Grid) error { return g.CommitEdit(row, col, v) })
}

func (ws *Workspace) AddColumn(name string) (*Grid, error) {
	return ws.mutate(func(g *Grid) error { return g.AddColumn(name) })
}

func (ws *Workspace) AddRow() *Grid {
	g, _ := ws.mutate(func(g *Grid) error {
		g.AddRow()
		return nil
	})
	return g
}

// DeleteColumn removes column `idx` only when `confirmed`; deleted reports whether the grid changed.
// The index is checked either way.
func (ws *Workspace) DeleteColumn(idx int, confirmed bool) (g *Grid, deleted bool, err error) {
	g, err = ws.mutate(func(g *Grid) error {
		if idx < 0 || idx >= g.ColumnCount() {
			return outOfRange("column", idx, g.ColumnCount())
		}
		if !confirmed {
			return nil
		}
		deleted = true
		return g.DeleteColumn(idx)
	})
	return g, deleted, err
}

// DeleteRow removes row `idx` only when `confirmed`; deleted reports whether the grid changed.
func (ws *Workspace) DeleteRow(idx int, confirmed bool) (g *Grid, deleted bool, err error) {
	g, err = ws.mutate(func(g *Grid) error {
		if idx < 0 || idx >= g.RowCount() {
			return outOfRange("row", idx, g.RowCount())
		}
		if !confirmed {
			return nil
		}
		deleted = true
		return g.DeleteRow(idx)
	})
	return g, deleted, err
}

// Changes returns a unified diff between the grid as imported and the current grid,
// one tab-separated line per row. It is empty when nothing changed.
func (ws *Workspace) Changes() (string, error) {
	ws.mu.Lock()
	diff := difflib.UnifiedDiff{
		A:        ws.original.Lines(),
		B:        ws.grid.Lines(),
		FromFile: ws.sourceName(),
		ToFile:   ws.exportFileName(),
		Context:  1,
	}
	ws.mu.Unlock()

	text, err := difflib.GetUnifiedDiffString(diff)
	return text, errors.Wrap(err, "diffing grid")
}

// mutate applies `fn` to the grid under the lock and returns a copy of the result.
// fn must leave the grid unchanged when it fails.
func (ws *Workspace) mutate(fn func(g *Grid) error) (*Grid, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if err := fn(ws.grid); err != nil {
		return nil, err
	}
	return ws.grid.Clone(), nil
}

// snapshot must be called with ws.mu held.
func (ws *Workspace) snapshot() Snapshot {
	g := ws.grid.Clone()
	return Snapshot{
		Owner:    ws.owner,
		FileName: ws.fileName,
		Headers:  g.Headers,
		Rows:     g.Values(),
		TakenAt:  ws.nowFunc().UTC(),
	}
}

func (ws *Workspace) sourceName() string {
	if ws.fileName == "" {
		return defaultExportBase
	}
	return ws.fileName
}

func (ws *Workspace) exportFileName() string {
	return ExportFileName(ws.fileName, ws.codec.Ext())
}

// ExportFileName derives the download name from the uploaded file name:
// the last extension is replaced by "_edited"+ext.
func ExportFileName(uploaded, ext string) string {
	base := filepath.Base(uploaded)
	if uploaded == "" || base == "." || base == string(filepath.Separator) {
		base = ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = defaultExportBase
	}
	return base + "_edited" + ext
}
