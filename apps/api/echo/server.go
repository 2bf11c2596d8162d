package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/roster"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/services/metrics"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		UserSvc        user.Service
		Sessions       *session.Store
		Roster         *roster.Service
		Metrics        *metrics.Recorder
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool
	}

	Server struct {
		deps      ServerDeps
		app       *echo.Echo
		jwtConfig middleware.JWTConfig
		errors    chan error
		shutdown  chan os.Signal
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(deps ServerDeps) (*Server, error) {
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewRecorder("academia")
	}
	s := &Server{
		deps: deps,
		app:  echo.New(),
		jwtConfig: middleware.JWTConfig{
			SigningKey:    []byte(deps.Conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    contextTokenKey,
			Claims:        new(Claims),
		},
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	if err := s.setup(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) setup() error {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(metricsMiddleware(s.deps.Metrics))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	rate, err := limiter.NewRateFromFormatted(conf.Server.LoginRateLimit)
	if err != nil {
		return errors.Wrapf(err, "parsing login rate limit %q", conf.Server.LoginRateLimit)
	}
	loginLimit := rateLimitMiddleware(limiter.New(memory.NewStore(), rate))

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	auth := []echo.MiddlewareFunc{middleware.JWTWithConfig(s.jwtConfig), sessionMiddleware(s.deps.Sessions)}

	registerUserAPI(v1, s, loginLimit, auth)
	registerDashboardAPI(v1, s, auth)
	registerRosterAPI(v1, s, auth)
	registerAcademicsAPI(v1, s, auth)
	registerPages(s.app.Group("/app"), s)

	return nil
}

// Start listens in the background; a listener failure is sent to Errors.
func (s *Server) Start() {
	go func() {
		if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
			s.errors <- err
		}
	}()
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.deps.Conf.AppName+" API!")
}
