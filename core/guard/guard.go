// Package guard decides which screen an identity may reach.
package guard

import (
	"strings"

	"github.com/trezcool/academia/core/user"
)

const (
	PathLogin       = "/login"
	PathDashboard   = "/dashboard"
	PathDepartments = "/departments"
	PathAcademics   = "/academics"
)

// Screens
const (
	ScreenLogin              = "login"
	ScreenPrincipalDashboard = "principal-dashboard"
	ScreenHODDashboard       = "hod-dashboard"
	ScreenDepartments        = "departments"
	ScreenAcademics          = "academics"
)

// Route is a guarded path. No roles means any authenticated identity.
type Route struct {
	Path  string
	Roles []user.Role
}

var Routes = []Route{
	{Path: PathDashboard},
	{Path: PathDepartments, Roles: []user.Role{user.RolePrincipal}},
	{Path: PathAcademics, Roles: []user.Role{user.RoleHOD}},
}

// Resolve returns where a navigation to `path` ends up for `usr` (nil when logged out),
// and whether the requested path was admitted as is.
//   - logged out: only /login is admitted; everything else goes to /login.
//   - logged in: /login goes to /dashboard, so do unknown paths and routes of another role.
func Resolve(usr *user.User, path string) (dest string, admitted bool) {
	path = Clean(path)

	if usr == nil {
		return PathLogin, path == PathLogin
	}
	if path == PathLogin {
		return PathDashboard, false
	}
	for _, route := range Routes {
		if route.Path != path {
			continue
		}
		if usr.HasRole(route.Roles...) {
			return path, true
		}
		return PathDashboard, false
	}
	return PathDashboard, false
}

// Screen names the screen shown at an admitted `path`.
func Screen(usr *user.User, path string) string {
	switch Clean(path) {
	case PathDepartments:
		return ScreenDepartments
	case PathAcademics:
		return ScreenAcademics
	case PathDashboard:
		if usr != nil && usr.IsHOD() {
			return ScreenHODDashboard
		}
		return ScreenPrincipalDashboard
	default:
		return ScreenLogin
	}
}

// Clean normalises `path` to a leading slash and no trailing slash.
func Clean(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = "/" + strings.Trim(path, "/")
	return path
}
