package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/ulule/limiter/v3"

	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/services/metrics"
)

// sessionMiddleware loads the session named by the token; it must run after the JWT middleware.
// Tokens of ended sessions are rejected.
func sessionMiddleware(store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			sess, err := store.Get(claims.Id)
			if err != nil || sess.User.ID != claims.Subject {
				return errSessionExpired
			}
			ctx.Set(contextSessionKey, sess)
			return next(ctx)
		}
	}
}

// roleMiddleware only lets through sessions holding one of `roles`.
func roleMiddleware(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := getContextSession(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context session")
			}
			if sess.User.HasRole(roles...) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// rateLimitMiddleware limits requests per client IP.
func rateLimitMiddleware(lim *limiter.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			lctx, err := lim.Get(ctx.Request().Context(), ctx.RealIP())
			if err != nil {
				return errors.Wrap(err, "checking rate limit")
			}

			h := ctx.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

			if lctx.Reached {
				return errTooManyRequests
			}
			return next(ctx)
		}
	}
}

// metricsMiddleware counts requests by route and final status code.
func metricsMiddleware(rec *metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if err := next(ctx); err != nil {
				ctx.Error(err)
			}
			rec.Request(ctx.Request().Method, ctx.Path(), strconv.Itoa(ctx.Response().Status))
			return nil
		}
	}
}
