package jwt

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_VerifiesTokens(t *testing.T) {
	svc := NewJWTService("test-secret")

	_, tokenString, err := svc.JWTAuth().Encode(map[string]interface{}{
		"user_id":     "user-1",
		"employee_id": "emp-1",
		"role":        "employee",
		"type":        "access",
	})
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, "access", claims["type"])
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a")
	verifier := NewJWTService("secret-b")

	_, tokenString, err := issuer.JWTAuth().Encode(map[string]interface{}{"user_id": "user-1"})
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(verifier.JWTAuth(), tokenString)
	assert.Error(t, err)
}
