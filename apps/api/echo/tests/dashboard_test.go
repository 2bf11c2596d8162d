package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dashboardResp struct {
	Screen     string   `json:"screen"`
	Sections   []string `json:"sections"`
	Department string   `json:"department"`
	User       struct {
		Username string `json:"username"`
	} `json:"user"`
	Roster *struct {
		Departments   int `json:"departments"`
		TotalStudents int `json:"total_students"`
	} `json:"roster"`
	Editor *struct {
		FileName string `json:"file_name"`
		Loaded   bool   `json:"loaded"`
		Rows     int    `json:"rows"`
	} `json:"editor"`
}

func (app *testApp) dashboard(t *testing.T, token string) dashboardResp {
	t.Helper()
	req, rec := newAuthRequest(http.MethodGet, "/v1/dashboard", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dashboardResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func Test_dashboardApi(t *testing.T) {
	app := setup(t)

	t.Run("logged out", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/dashboard")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("principal", func(t *testing.T) {
		resp := app.dashboard(t, app.login(t, "principal", "principal123"))
		assert.Equal(t, "principal-dashboard", resp.Screen)
		assert.Equal(t, "principal", resp.User.Username)
		assert.Equal(t, []string{"/departments"}, resp.Sections)
		require.NotNil(t, resp.Roster)
		assert.Equal(t, 5, resp.Roster.Departments)
		assert.Positive(t, resp.Roster.TotalStudents)
		assert.Nil(t, resp.Editor)
	})

	t.Run("hod", func(t *testing.T) {
		token := app.login(t, "hod", "hod123")
		resp := app.dashboard(t, token)
		assert.Equal(t, "hod-dashboard", resp.Screen)
		assert.Equal(t, []string{"/academics"}, resp.Sections)
		assert.Equal(t, "Computer Science", resp.Department)
		assert.Nil(t, resp.Roster)
		require.NotNil(t, resp.Editor)
		assert.False(t, resp.Editor.Loaded)

		app.importMarks(t, token)
		resp = app.dashboard(t, token)
		assert.True(t, resp.Editor.Loaded)
		assert.Equal(t, "marks.xlsx", resp.Editor.FileName)
		assert.Equal(t, 2, resp.Editor.Rows)
	})
}
