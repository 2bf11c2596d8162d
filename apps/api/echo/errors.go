package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/academics"
	"github.com/trezcool/academia/core/roster"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/core/user"
)

var (
	errUnauthorized     = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errSessionExpired   = echo.NewHTTPError(http.StatusUnauthorized, "session expired")
	errRefreshExpired   = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden    = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound     = echo.NewHTTPError(http.StatusNotFound, "not found")
	errTooManyRequests  = echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts, try again later")
	errImportInProgress = echo.NewHTTPError(http.StatusConflict, academics.ErrImportInProgress.Error())
	errInvalidCreds     = core.NewValidationError(errors.New("invalid credentials"))
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		if herr := sentinelHTTPError(cause); herr != nil {
			cause = herr
		}

		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if flds := origErr.FieldMap(); flds != nil {
				message = flds
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *academics.ImportDecodeError:
			code = http.StatusBadRequest
			message = echo.Map{"file": origErr.Error()}
		default: // any other error is a server error (incl. *academics.ExportEncodeError)
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var usr user.User
			if sess, sErr := getContextSession(ctx); sErr == nil {
				usr = sess.User
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// sentinelHTTPError maps the domain sentinel errors to their HTTP error, or returns nil.
func sentinelHTTPError(cause error) error {
	switch cause {
	case academics.ErrOutOfRange:
		return core.NewValidationError(nil, core.FieldError{Field: "cell", Error: "cell not found"})
	case academics.ErrBlankColumnName:
		return core.NewValidationError(nil, core.FieldError{Field: "name", Error: cause.Error()})
	case academics.ErrImportInProgress:
		return errImportInProgress
	case session.ErrNotFound:
		return errSessionExpired
	case roster.ErrNotFound:
		return errHttpNotFound
	}
	return nil
}
