package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core/guard"
	"github.com/trezcool/academia/core/user"
)

const pagesPrefix = "/app"

type PageResponse struct {
	Path   string     `json:"path"`
	Screen string     `json:"screen"`
	User   *user.User `json:"user,omitempty"`
}

// registerPages serves the navigation guard: every path under /app either resolves to a
// screen for the caller or redirects to where the caller belongs.
// Unlike the API, a missing or stale token is not an error here; the caller is just logged out.
func registerPages(g *echo.Group, srv *Server) {
	g.GET("", srv.page)
	g.GET("/*", srv.page)
}

func (s *Server) page(ctx echo.Context) error {
	var usr *user.User
	if sess := s.optionalSession(ctx); sess != nil {
		u := sess.User
		usr = &u
	}

	dest, admitted := guard.Resolve(usr, "/"+ctx.Param("*"))
	if !admitted {
		return ctx.Redirect(http.StatusFound, pagesPrefix+dest)
	}
	return ctx.JSON(http.StatusOK, PageResponse{
		Path:   dest,
		Screen: guard.Screen(usr, dest),
		User:   usr,
	})
}
