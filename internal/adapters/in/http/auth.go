package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const callerKey = "marketplace.caller"

var (
	ErrMissingToken = errors.New("authorization token is required")
	ErrInvalidToken = errors.New("authorization token is invalid or expired")
)

// Claims carries the caller identity; the subject is the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Caller is the authenticated user behind a request.
type Caller struct {
	ID   kernel.UUID
	Role user.Role
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *TokenIssuer) Issue(userID kernel.UUID, role user.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *TokenIssuer) Verify(raw string) (Caller, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Caller{}, ErrInvalidToken
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return Caller{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	role, err := user.ParseRole(claims.Role)
	if err != nil {
		return Caller{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return Caller{ID: id, Role: role}, nil
}

// Authenticate resolves a bearer token when one is sent. Requests without a
// token pass through; handlers that need a caller reject them.
func Authenticate(tokens *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(ctx)
			}

			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				return respondError(ctx, ErrInvalidToken)
			}
			caller, err := tokens.Verify(raw)
			if err != nil {
				return respondError(ctx, err)
			}
			ctx.Set(callerKey, caller)
			return next(ctx)
		}
	}
}

func callerFrom(ctx echo.Context) (Caller, error) {
	caller, ok := ctx.Get(callerKey).(Caller)
	if !ok {
		return Caller{}, ErrMissingToken
	}
	return caller, nil
}
