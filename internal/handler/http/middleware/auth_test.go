package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuth() *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte("test-secret"), nil)
}

func signedContext(t *testing.T, ja *jwtauth.JWTAuth, claims map[string]interface{}) context.Context {
	t.Helper()
	token, _, err := ja.Encode(claims)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestIdentityFromContext(t *testing.T) {
	ja := testAuth()

	t.Run("reads claims", func(t *testing.T) {
		ctx := signedContext(t, ja, map[string]interface{}{
			"user_id":     "user-1",
			"employee_id": "emp-1",
			"role":        "admin",
			"type":        "access",
		})

		identity, err := IdentityFromContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, "user-1", identity.UserID)
		assert.Equal(t, "emp-1", identity.EmployeeID)
		assert.Equal(t, "admin", identity.Role)
	})

	t.Run("missing both ids is invalid", func(t *testing.T) {
		ctx := signedContext(t, ja, map[string]interface{}{"role": "admin", "type": "access"})

		_, err := IdentityFromContext(ctx)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no token in context", func(t *testing.T) {
		_, err := IdentityFromContext(context.Background())
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthRequired(t *testing.T) {
	ja := testAuth()

	handler := AuthRequired(ja)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(ctx context.Context) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("access token passes", func(t *testing.T) {
		ctx := signedContext(t, ja, map[string]interface{}{
			"user_id": "user-1", "employee_id": "emp-1", "role": "employee", "type": "access",
		})
		assert.Equal(t, http.StatusOK, serve(ctx).Code)
	})

	t.Run("non-access token rejected", func(t *testing.T) {
		ctx := signedContext(t, ja, map[string]interface{}{
			"user_id": "user-1", "type": "refresh",
		})
		assert.Equal(t, http.StatusUnauthorized, serve(ctx).Code)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(context.Background()).Code)
	})
}
