package di

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/academics"
	"github.com/trezcool/academia/core/roster"
	"github.com/trezcool/academia/services/backend"
)

func testConfig() *core.Config {
	return &core.Config{
		AppName:   "Academia",
		Env:       "TEST",
		TestMode:  true,
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: time.Hour,
			LoginRateLimit:            "10-M",
		},
		Academics: core.AcademicsConfig{MaxUploadSize: 1 << 20},
	}
}

func TestNew_embeddedSeeds(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)

	err = c.Invoke(func(server *echoapi.Server, rs *roster.Service) {
		n, _ := rs.Totals()
		assert.Equal(t, 5, n)

		req := httptest.NewRequest(http.MethodPost, "/v1/users/login",
			bytes.NewBufferString(`{"username": "principal", "password": "principal123"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		_ = server.Close()
	})
	assert.NoError(t, err)
}

func TestNew_seedFiles(t *testing.T) {
	dir := t.TempDir()
	conf := testConfig()
	conf.Seeds.UsersFile = filepath.Join(dir, "users.yaml")
	conf.Seeds.RosterFile = filepath.Join(dir, "roster.yaml")
	require.NoError(t, os.WriteFile(conf.Seeds.UsersFile, []byte(`
users:
  - {id: "7", username: dean, name: Dean, role: principal, password: dean123}
`), 0o600))
	require.NoError(t, os.WriteFile(conf.Seeds.RosterFile, []byte(`
departments:
  - {id: "1", name: Physics, hod_name: Dr. X, total_students: 10, action_label: View Details}
`), 0o600))

	c, err := New(conf)
	require.NoError(t, err)
	err = c.Invoke(func(server *echoapi.Server, rs *roster.Service) {
		n, members := rs.Totals()
		assert.Equal(t, 1, n)
		assert.Equal(t, 10, members)

		req := httptest.NewRequest(http.MethodPost, "/v1/users/login",
			bytes.NewBufferString(`{"username": "dean", "password": "dean123"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		_ = server.Close()
	})
	assert.NoError(t, err)

	// a broken seed file fails the invocation
	require.NoError(t, os.WriteFile(conf.Seeds.UsersFile, []byte(`users: [{id: "1"}]`), 0o600))
	c, err = New(conf)
	require.NoError(t, err)
	assert.Error(t, c.Invoke(func(*echoapi.Server) {}))
}

func TestNew_backend(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		want    interface{}
		wantErr bool
	}{
		{name: "default", backend: "", want: &backend.ConsoleBackend{}},
		{name: "console", backend: BackendConsole, want: &backend.ConsoleBackend{}},
		{name: "mail", backend: BackendMail, want: &backend.MailBackend{}},
		{name: "unknown", backend: "ftp", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conf := testConfig()
			conf.Academics.Backend = tc.backend
			c, err := New(conf)
			require.NoError(t, err)

			err = c.Invoke(func(bk academics.Backend) {
				assert.IsType(t, tc.want, bk)
			})
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
