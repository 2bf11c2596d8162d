package echoapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/academics"
	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/services/metrics"
)

const (
	headerSubmitted = "X-Backend-Submitted"

	// room for the multipart envelope around the file
	uploadOverhead = 64 << 10
)

type academicsApi struct {
	maxUploadSize int64
	metrics       *metrics.Recorder
	validate      *validator.Validate
}

func registerAcademicsAPI(g *echo.Group, srv *Server, auth []echo.MiddlewareFunc) {
	api := academicsApi{
		maxUploadSize: srv.deps.Conf.Academics.MaxUploadSize,
		metrics:       srv.deps.Metrics,
		validate:      srv.deps.Validate,
	}

	mw := append(append([]echo.MiddlewareFunc{}, auth...), roleMiddleware(user.RoleHOD))
	ag := g.Group("/academics", mw...)
	ag.GET("", api.retrieve)
	ag.GET("/changes", api.changes)
	ag.POST("/import", api.importFile, middleware.BodyLimit(fmt.Sprintf("%dB", api.maxUploadSize+uploadOverhead)))
	ag.GET("/export", api.exportFile)

	cg := ag.Group("/cells/:row/:col")
	cg.PUT("", api.setCell)
	cg.POST("/toggle", api.toggleCell)
	cg.POST("/commit", api.commitCell)

	ag.POST("/columns", api.addColumn)
	ag.DELETE("/columns/:index", api.deleteColumn)
	ag.POST("/rows", api.addRow)
	ag.DELETE("/rows/:index", api.deleteRow)
}

type (
	GridResponse struct {
		FileName   string             `json:"file_name"`
		ExportName string             `json:"export_name"`
		Headers    []string           `json:"headers"`
		Rows       [][]academics.Cell `json:"rows"`
	}

	ImportResponse struct {
		GridResponse
		Submitted bool `json:"submitted"`
	}

	DeleteResponse struct {
		GridResponse
		Deleted bool `json:"deleted"`
	}

	ChangesResponse struct {
		Changed bool   `json:"changed"`
		Diff    string `json:"diff"`
	}

	CellRequest struct {
		Value *academics.Value `json:"value" validate:"required"`
	}

	ColumnRequest struct {
		Name string `json:"name" validate:"required"`
	}
)

func newGridResponse(ws *academics.Workspace, g *academics.Grid) GridResponse {
	status := ws.Status()
	return GridResponse{
		FileName:   status.FileName,
		ExportName: ws.ExportFileName(),
		Headers:    g.Headers,
		Rows:       g.Rows,
	}
}

func contextWorkspace(ctx echo.Context) (*academics.Workspace, error) {
	sess, err := getContextSession(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting context session")
	}
	return sess.Workspace, nil
}

// Handlers

func (api *academicsApi) retrieve(ctx echo.Context) error {
	ws, err := contextWorkspace(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newGridResponse(ws, ws.Grid()))
}

func (api *academicsApi) changes(ctx echo.Context) error {
	ws, err := contextWorkspace(ctx)
	if err != nil {
		return err
	}
	diff, err := ws.Changes()
	if err != nil {
		return errors.Wrap(err, "diffing grid")
	}
	return ctx.JSON(http.StatusOK, ChangesResponse{Changed: diff != "", Diff: diff})
}

func (api *academicsApi) importFile(ctx echo.Context) error {
	ws, err := contextWorkspace(ctx)
	if err != nil {
		return err
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "this field is required"})
	}
	if fh.Size > api.maxUploadSize {
		api.metrics.Import(metrics.Rejected)
		return core.NewValidationError(nil, core.FieldError{
			Field: "file",
			Error: fmt.Sprintf("file is too large (max %d bytes)", api.maxUploadSize),
		})
	}

	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer f.Close()

	res, err := ws.Import(ctx.Request().Context(), fh.Filename, f)
	if err != nil {
		if errors.Cause(err) == academics.ErrImportInProgress {
			api.metrics.Import(metrics.Rejected)
		} else {
			api.metrics.Import(metrics.Failed)
		}
		return errors.Wrap(err, "importing file")
	}
	api.metrics.Import(metrics.OK)

	return ctx.JSON(http.StatusOK, ImportResponse{
		GridResponse: newGridResponse(ws, res.Grid),
		Submitted:    res.Submitted,
	})
}

// exportFile downloads the current grid as a workbook.
func (api *academicsApi) exportFile(ctx echo.Context) error {
	ws, err := contextWorkspace(ctx)
	if err != nil {
		return err
	}

	res, err := ws.Export(ctx.Request().Context())
	if err != nil {
		api.metrics.Export(metrics.Failed)
		return errors.Wrap(err, "exporting grid")
	}
	api.metrics.Export(metrics.OK)

	h := ctx.Response().Header()
	h.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.FileName))
	h.Set(headerSubmitted, strconv.FormatBool(res.Submitted))
	return ctx.Blob(http.StatusOK, res.ContentType, res.Data)
}

func (api *academicsApi) setCell(ctx echo.Context) error {
	return api.editCell(ctx, "set", func(ws *academics.Workspace, row, col int, v academics.Value) (*academics.Grid, error) {
		return ws.SetCellValue(row, col, v)
	})
}

func (api *academicsApi) commitCell(ctx echo.Context) error {
	return api.editCell(ctx, "commit", func(ws *academics.Workspace, row, col int, v academics.Value) (*academics.Grid, error) {
		return ws.CommitEdit(row, col, v)
	})
}

func (api *academicsApi) editCell(
	ctx echo.Context,
	op string,
	edit func(ws *academics.Workspace, row, col int, v academics.Value) (*academics.Grid, error),
) error {
	ws, err := contextWorkspace(ctx)
	if err != nil {
		return err
	}
	row, col, err := cellParams(ctx)
	if err != nil {
		return err
	}

	var data CellRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CellRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	g, err := edit(ws, row, col, *data.Value)
	if err != nil {
		return errors.Wrapf(err, "%s cell", op)
	}
	api.metrics.Edit(op)
	return ctx.JSON(http.StatusOK, newGridResponse(ws, g))
}

func (api *academicsApi) toggleCell(ctx echo.Context) error {
	ws, err := contextWorkspace(ctx)
	if err != nil {
		return err
	}
	row, col, err := cellParams(ctx)
	if err != nil {
		return err
	}

	g, err := ws.ToggleEditing(row, col)
	if err != nil {
		return errors.Wrap(err, "toggling cell")
	}
	api.metrics.Edit("toggle")
	return ctx.JSON(http.StatusOK, newGridResponse(ws, g))
}

func (api *academicsApi) addColumn(ctx echo.Context) error {
	ws, err := contextWorkspace(ctx)
	if err != nil {
		return err
	}

	var data ColumnRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ColumnRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	g, err := ws.AddColumn(data.Name)
	if err != nil {
		return errors.Wrap(err, "adding column")
	}
	api.metrics.Edit("add_column")
	return ctx.JSON(http.StatusCreated, newGridResponse(ws, g))
}

func (api *academicsApi) addRow(ctx echo.Context) error {
	ws, err := contextWorkspace(ctx)
	if err != nil {
		return err
	}
	api.metrics.Edit("add_row")
	return ctx.JSON(http.StatusCreated, newGridResponse(ws, ws.AddRow()))
}

// deleteColumn only deletes with `?confirm=true`; otherwise the grid is returned untouched.
func (api *academicsApi) deleteColumn(ctx echo.Context) error {
	return api.deleteLine(ctx, "delete_column", (*academics.Workspace).DeleteColumn)
}

// deleteRow only deletes with `?confirm=true`; otherwise the grid is returned untouched.
func (api *academicsApi) deleteRow(ctx echo.Context) error {
	return api.deleteLine(ctx, "delete_row", (*academics.Workspace).DeleteRow)
}

func (api *academicsApi) deleteLine(
	ctx echo.Context,
	op string,
	del func(ws *academics.Workspace, idx int, confirmed bool) (*academics.Grid, bool, error),
) error {
	ws, err := contextWorkspace(ctx)
	if err != nil {
		return err
	}
	idx, err := intParam(ctx, "index")
	if err != nil {
		return err
	}
	confirmed, _ := strconv.ParseBool(ctx.QueryParam("confirm"))

	g, deleted, err := del(ws, idx, confirmed)
	if err != nil {
		return errors.Wrap(err, op)
	}
	if deleted {
		api.metrics.Edit(op)
	}
	return ctx.JSON(http.StatusOK, DeleteResponse{GridResponse: newGridResponse(ws, g), Deleted: deleted})
}

func intParam(ctx echo.Context, name string) (int, error) {
	n, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be an integer"})
	}
	return n, nil
}

func cellParams(ctx echo.Context) (row, col int, err error) {
	if row, err = intParam(ctx, "row"); err != nil {
		return
	}
	col, err = intParam(ctx, "col")
	return
}
