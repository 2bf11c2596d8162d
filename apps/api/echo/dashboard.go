package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/academics"
	"github.com/trezcool/academia/core/guard"
	"github.com/trezcool/academia/core/roster"
	"github.com/trezcool/academia/core/user"
)

type dashboardApi struct {
	roster *roster.Service
}

func registerDashboardAPI(g *echo.Group, srv *Server, auth []echo.MiddlewareFunc) {
	api := dashboardApi{roster: srv.deps.Roster}
	g.GET("/dashboard", api.retrieve, auth...)
}

type (
	DashboardResponse struct {
		Screen     string            `json:"screen"`
		User       user.User         `json:"user"`
		Sections   []string          `json:"sections"`
		Roster     *RosterSummary    `json:"roster,omitempty"`
		Department string            `json:"department,omitempty"`
		Editor     *academics.Status `json:"editor,omitempty"`
	}

	RosterSummary struct {
		Departments   int `json:"departments"`
		TotalStudents int `json:"total_students"`
	}
)

// retrieve returns the role-specific dashboard of the session user.
func (api *dashboardApi) retrieve(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}

	usr := sess.User
	resp := DashboardResponse{
		Screen:   guard.Screen(&usr, guard.PathDashboard),
		User:     usr,
		Sections: []string{},
	}
	switch usr.Role {
	case user.RolePrincipal:
		deps, members := api.roster.Totals()
		resp.Sections = append(resp.Sections, guard.PathDepartments)
		resp.Roster = &RosterSummary{Departments: deps, TotalStudents: members}
	case user.RoleHOD:
		status := sess.Workspace.Status()
		resp.Sections = append(resp.Sections, guard.PathAcademics)
		resp.Department = usr.Department
		resp.Editor = &status
	}
	return ctx.JSON(http.StatusOK, resp)
}
