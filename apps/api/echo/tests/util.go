package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/academics"
	"github.com/trezcool/academia/core/roster"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/core/user"
	appfs "github.com/trezcool/academia/fs"
	"github.com/trezcool/academia/services/backend"
	logsvc "github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/services/metrics"
	"github.com/trezcool/academia/services/spreadsheet"
	inmemdb "github.com/trezcool/academia/storage/database/inmem"
	"github.com/trezcool/academia/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	*Server
	principal user.User
	hod       user.User
	sessions  *session.Store
	metrics   *metrics.Recorder
}

func testConfig() *core.Config {
	return &core.Config{
		AppName:   "Academia",
		Env:       "TEST",
		TestMode:  true,
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 2 * time.Hour,
			LoginRateLimit:            "5-M",
		},
		Academics: core.AcademicsConfig{MaxUploadSize: 1 << 20},
	}
}

func setup(t *testing.T, confs ...func(conf *core.Config)) *testApp {
	t.Helper()
	conf := testConfig()
	for _, fn := range confs {
		fn(conf)
	}

	log := logsvc.NewRollbarLogger(logsvc.NewStdLogger(io.Discard, "TEST", false), conf)
	log.Enable(false)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// set up DB & services
	db := inmemdb.NewDB()
	app := &testApp{
		principal: testutil.CreateUser(t, db, "1", "principal", "Dr. Meera Nair", "principal123", user.RolePrincipal),
		hod:       testutil.CreateUser(t, db, "2", "hod", "Dr. Rajesh Kumar", "hod123", user.RoleHOD, "Computer Science"),
		metrics:   metrics.NewRecorder("academia_test"),
	}

	rf, err := appfs.FS.Open(appfs.RosterSeed)
	require.NoError(t, err)
	defer rf.Close()
	departments, err := roster.Load(rf)
	require.NoError(t, err)

	codec := spreadsheet.NewXLSXCodec()
	bk := backend.NewConsoleBackend(log)
	app.sessions = session.NewStore(conf.Server.JWTRefreshExpirationDelta, func(usr user.User) *academics.Workspace {
		return academics.NewWorkspace(usr.Username, codec, bk, log)
	})

	// set up server
	app.Server, err = NewServer(ServerDeps{
		Conf:           conf,
		Logger:         log,
		UserSvc:        user.NewService(inmemdb.NewUserRepository(db)),
		Sessions:       app.sessions,
		Roster:         roster.NewService(departments),
		Metrics:        app.metrics,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

// login authenticates through the API and returns the token.
func (app *testApp) login(t *testing.T, uname, pwd string) string {
	t.Helper()
	req, rec := newRequest(http.MethodPost, "/v1/users/login", marchallObj(t, LoginRequest{Username: uname, Password: pwd}))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func (app *testApp) do(req *http.Request, rec *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	app.ServeHTTP(rec, req)
	return rec
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// newUploadRequest builds a multipart request with `data` as the `file` field.
func newUploadRequest(t *testing.T, path, token, fileName string, data []byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, tt.wantCode, rec.Code, "code; body %s", rec.Body.String())
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
