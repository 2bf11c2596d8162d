package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	. "github.com/trezcool/academia/apps/api/echo"
)

func Test_pages(t *testing.T) {
	app := setup(t)
	principal := app.login(t, "principal", "principal123")
	hod := app.login(t, "hod", "hod123")

	tests := []struct {
		name         string
		path         string
		token        string
		wantCode     int
		wantLocation string
		wantScreen   string
	}{
		{name: "logged out, login", path: "/app/login", wantCode: http.StatusOK, wantScreen: "login"},
		{name: "logged out, dashboard", path: "/app/dashboard", wantCode: http.StatusFound, wantLocation: "/app/login"},
		{name: "logged out, root", path: "/app", wantCode: http.StatusFound, wantLocation: "/app/login"},
		{name: "stale token is logged out", path: "/app/academics", token: "stale", wantCode: http.StatusFound, wantLocation: "/app/login"},
		{name: "principal, login", path: "/app/login", token: principal, wantCode: http.StatusFound, wantLocation: "/app/dashboard"},
		{name: "principal, dashboard", path: "/app/dashboard", token: principal, wantCode: http.StatusOK, wantScreen: "principal-dashboard"},
		{name: "principal, departments", path: "/app/departments", token: principal, wantCode: http.StatusOK, wantScreen: "departments"},
		{name: "principal, academics", path: "/app/academics", token: principal, wantCode: http.StatusFound, wantLocation: "/app/dashboard"},
		{name: "hod, dashboard", path: "/app/dashboard/", token: hod, wantCode: http.StatusOK, wantScreen: "hod-dashboard"},
		{name: "hod, academics", path: "/app/academics", token: hod, wantCode: http.StatusOK, wantScreen: "academics"},
		{name: "hod, departments", path: "/app/departments", token: hod, wantCode: http.StatusFound, wantLocation: "/app/dashboard"},
		{name: "hod, unknown", path: "/app/whatever", token: hod, wantCode: http.StatusFound, wantLocation: "/app/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
			if tt.wantLocation != "" {
				if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
					t.Errorf("failed! location = %q; wantLocation %q", loc, tt.wantLocation)
				}
				return
			}
			var page PageResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
				t.Fatalf("json.Unmarshal() failed: %v", err)
			}
			if page.Screen != tt.wantScreen {
				t.Errorf("failed! screen = %q; wantScreen %q", page.Screen, tt.wantScreen)
			}
			if (page.User == nil) != (tt.token == "") {
				t.Errorf("failed! user = %v; token %q", page.User, tt.token)
			}
		})
	}
}
