package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/academia/core/guard"
	"github.com/trezcool/academia/core/user"
)

func TestResolve(t *testing.T) {
	principal := &user.User{ID: "1", Username: "principal", Role: user.RolePrincipal}
	hod := &user.User{ID: "2", Username: "hod", Role: user.RoleHOD}

	tests := []struct {
		name         string
		usr          *user.User
		path         string
		wantDest     string
		wantAdmitted bool
	}{
		{name: "anonymous login", usr: nil, path: "/login", wantDest: "/login", wantAdmitted: true},
		{name: "anonymous dashboard", usr: nil, path: "/dashboard", wantDest: "/login"},
		{name: "anonymous academics", usr: nil, path: "/academics", wantDest: "/login"},
		{name: "anonymous unknown", usr: nil, path: "/nowhere", wantDest: "/login"},
		{name: "anonymous root", usr: nil, path: "/", wantDest: "/login"},

		{name: "principal login", usr: principal, path: "/login", wantDest: "/dashboard"},
		{name: "principal dashboard", usr: principal, path: "/dashboard", wantDest: "/dashboard", wantAdmitted: true},
		{name: "principal departments", usr: principal, path: "/departments", wantDest: "/departments", wantAdmitted: true},
		{name: "principal academics", usr: principal, path: "/academics", wantDest: "/dashboard"},
		{name: "principal unknown", usr: principal, path: "/grades", wantDest: "/dashboard"},

		{name: "hod login", usr: hod, path: "/login", wantDest: "/dashboard"},
		{name: "hod dashboard", usr: hod, path: "/dashboard/", wantDest: "/dashboard", wantAdmitted: true},
		{name: "hod departments", usr: hod, path: "/departments", wantDest: "/dashboard"},
		{name: "hod academics", usr: hod, path: "academics?tab=1", wantDest: "/academics", wantAdmitted: true},
		{name: "hod root", usr: hod, path: "", wantDest: "/dashboard"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dest, admitted := guard.Resolve(tc.usr, tc.path)
			assert.Equal(t, tc.wantDest, dest)
			assert.Equal(t, tc.wantAdmitted, admitted)
		})
	}
}

func TestScreen(t *testing.T) {
	principal := &user.User{Role: user.RolePrincipal}
	hod := &user.User{Role: user.RoleHOD}

	assert.Equal(t, guard.ScreenPrincipalDashboard, guard.Screen(principal, "/dashboard"))
	assert.Equal(t, guard.ScreenHODDashboard, guard.Screen(hod, "/dashboard"))
	assert.Equal(t, guard.ScreenDepartments, guard.Screen(principal, "/departments"))
	assert.Equal(t, guard.ScreenAcademics, guard.Screen(hod, "/academics"))
	assert.Equal(t, guard.ScreenLogin, guard.Screen(nil, "/login"))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "/", guard.Clean(""))
	assert.Equal(t, "/dashboard", guard.Clean("dashboard/"))
	assert.Equal(t, "/academics", guard.Clean(" /academics?x=1#top "))
}
