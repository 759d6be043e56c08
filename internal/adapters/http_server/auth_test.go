package httpserver_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "launderette_near/internal/adapters/http_server"
)

func TestRequireAdmin_TokenChecks(t *testing.T) {
	e := newEnv(t)

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "not.a.jwt", http.StatusUnauthorized},
		{"non-admin role", signedToken(t, "user@example.com", "viewer", time.Hour), http.StatusUnauthorized},
		{"expired token", signedToken(t, "ops@example.com", "admin", -time.Hour), http.StatusUnauthorized},
		{"valid admin", adminToken(t, "ops@example.com"), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := e.do(t, http.MethodGet, "/v1/corrections", nil, tc.token)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireAdmin_RejectsWrongSecret(t *testing.T) {
	e := newEnv(t)

	claims := httpserver.Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	rec := e.do(t, http.MethodGet, "/v1/corrections", nil, tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin_ProblemBody(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodDelete, "/v1/reviews/abc", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}
