package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/roster"
	"github.com/trezcool/academia/core/user"
)

type rosterApi struct {
	svc *roster.Service
}

func registerRosterAPI(g *echo.Group, srv *Server, auth []echo.MiddlewareFunc) {
	api := rosterApi{svc: srv.deps.Roster}

	mw := append(append([]echo.MiddlewareFunc{}, auth...), roleMiddleware(user.RolePrincipal))
	dg := g.Group("/departments", mw...)
	dg.GET("", api.query)
	dg.GET("/:id", api.retrieve)
}

// query lists the departments, filtered by the `search` query param if present.
func (api *rosterApi) query(ctx echo.Context) error {
	if q := ctx.QueryParam("search"); q != "" {
		return ctx.JSON(http.StatusOK, api.svc.Search(q))
	}
	return ctx.JSON(http.StatusOK, api.svc.List())
}

func (api *rosterApi) retrieve(ctx echo.Context) error {
	dep, err := api.svc.Get(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting department")
	}
	return ctx.JSON(http.StatusOK, dep)
}
