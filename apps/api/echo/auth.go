package echoapi

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/core/user"
)

var (
	contextTokenKey   = "userToken"
	contextSessionKey = "session"
)

// Claims represents the authorization claims transmitted via a JWT.
// The standard `jti` claim holds the session ID.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64     `json:"oriat,omitempty"`
	Username     string    `json:"username,omitempty"`
	Role         user.Role `json:"role,omitempty"`
}

func (s *Server) newClaims(usr user.User, sessionID string, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        sessionID,
			Issuer:    s.deps.Conf.AppName,
			Subject:   usr.ID,
			Audience:  s.deps.Conf.AppName,
			ExpiresAt: now.Add(s.deps.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Username:     usr.Username,
		Role:         usr.Role,
	}
}

// generateToken generates a signed JWT token string representing the user Claims.
func (s *Server) generateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(s.jwtConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(s.jwtConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// parseToken validates a raw bearer token outside of the JWT middleware.
func (s *Server) parseToken(raw string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != s.jwtConfig.SigningMethod {
			return nil, errors.Errorf("unexpected jwt signing method=%v", t.Header["alg"])
		}
		return s.jwtConfig.SigningKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errUnauthorized
	}
	return claims, nil
}

// optionalSession returns the session of the bearer token if there is a valid one.
func (s *Server) optionalSession(ctx echo.Context) *session.Session {
	auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil
	}
	claims, err := s.parseToken(strings.TrimPrefix(auth, "Bearer "))
	if err != nil {
		return nil
	}
	sess, err := s.deps.Sessions.Get(claims.Id)
	if err != nil || sess.User.ID != claims.Subject {
		return nil
	}
	return sess
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextSession(ctx echo.Context) (*session.Session, error) {
	if sess, ok := ctx.Get(contextSessionKey).(*session.Session); ok {
		return sess, nil
	}
	return nil, errUnauthorized
}

func (s *Server) refreshToken(ctx echo.Context) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}
	sess, err := getContextSession(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context session")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(s.deps.Conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	token, err := s.generateToken(s.newClaims(sess.User, sess.ID, claims.OrigIssuedAt))
	return token, errors.Wrap(err, "generating token")
}
