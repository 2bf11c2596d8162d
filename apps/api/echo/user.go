package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/guard"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/services/metrics"
)

type userApi struct {
	srv      *Server
	svc      user.Service
	sessions *session.Store
	metrics  *metrics.Recorder
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, srv *Server, loginLimit echo.MiddlewareFunc, auth []echo.MiddlewareFunc) {
	api := userApi{
		srv:      srv,
		svc:      srv.deps.UserSvc,
		sessions: srv.deps.Sessions,
		metrics:  srv.deps.Metrics,
		validate: srv.deps.Validate,
	}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/login", api.login, loginLimit)

	// authed endpoints
	ag := ug.Group("", auth...)
	ag.POST("/logout", api.logout)
	ag.POST("/token-refresh", api.refreshToken)
	ag.GET("/me", api.me)
	ag.GET("/roles", api.queryRoles)
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrInvalidCredentials {
			api.metrics.Login(metrics.Failed)
			return errInvalidCreds
		}
		return errors.Wrap(err, "authenticating")
	}

	sess := api.sessions.Create(usr)
	token, err := api.srv.generateToken(api.srv.newClaims(usr, sess.ID))
	if err != nil {
		_ = api.sessions.Delete(sess.ID)
		return errors.Wrap(err, "generating token")
	}
	api.metrics.Login(metrics.OK)
	api.metrics.SetSessions(api.sessions.Len())

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr, Home: guard.PathDashboard})
}

// logout ends the session: its token stops working and the workspace is discarded.
func (api *userApi) logout(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	if err := api.sessions.Delete(sess.ID); err != nil && err != session.ErrNotFound {
		return errors.Wrap(err, "deleting session")
	}
	api.metrics.SetSessions(api.sessions.Len())
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) me(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	return ctx.JSON(http.StatusOK, sess.User)
}

func (api *userApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.Roles)
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	token, err := api.srv.refreshToken(ctx)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: sess.User, Home: guard.PathDashboard})
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
		Home  string    `json:"home"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}
