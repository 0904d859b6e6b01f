package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/clockwise-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller, extracted from verified claims.
// Identity is trusted as presented; this service does not issue tokens.
type Identity struct {
	UserID     string
	EmployeeID string
	Role       string
}

// AuthRequired rejects requests without a verified access token.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, ErrInvalidToken.Error())
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, ErrInvalidToken.Error())
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.Unauthorized(w, ErrInvalidToken.Error())
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// IdentityFromContext reads the caller identity from the verified claims.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	identity := Identity{}
	if v, ok := claims["user_id"].(string); ok {
		identity.UserID = v
	}
	if v, ok := claims["employee_id"].(string); ok {
		identity.EmployeeID = v
	}
	if v, ok := claims["role"].(string); ok {
		identity.Role = v
	}
	if identity.EmployeeID == "" && identity.UserID == "" {
		return Identity{}, ErrInvalidToken
	}

	return identity, nil
}
