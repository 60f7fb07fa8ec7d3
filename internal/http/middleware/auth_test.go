package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltbook/internal/models"
	"voltbook/internal/service"
)

func protected(t *testing.T, tokens *service.TokenService) (http.Handler, *int64, *string) {
	t.Helper()
	var gotUser int64
	var gotRole string
	handler := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserIDFromContext(r.Context())
		gotRole, _ = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &gotUser, &gotRole
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	tokens := service.NewTokenService("test-secret", time.Hour)
	handler, gotUser, gotRole := protected(t, tokens)

	token, err := tokens.GenerateToken(7, models.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), *gotUser)
	assert.Equal(t, models.RoleAdmin, *gotRole)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	tokens := service.NewTokenService("test-secret", time.Hour)
	other := service.NewTokenService("other-secret", time.Hour)
	handler, _, _ := protected(t, tokens)

	foreign, err := other.GenerateToken(7, models.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tokens := service.NewTokenService("test-secret", time.Hour)
	handler := Auth(tokens)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	userToken, err := tokens.GenerateToken(1, models.RoleUser)
	require.NoError(t, err)
	adminToken, err := tokens.GenerateToken(2, models.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
