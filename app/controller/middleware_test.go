package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textilehub/service"
)

func TestRequireAcceptsBearerToken(t *testing.T) {
	auth := service.NewAuthService(nil, "test-secret")
	token, err := auth.IssueToken("user-1")
	require.NoError(t, err)

	m := NewAuthMiddleware(auth)
	var gotUserID string
	handler := m.Require(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserID(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/designs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", gotUserID)
}

func TestRequireAcceptsQueryToken(t *testing.T) {
	auth := service.NewAuthService(nil, "test-secret")
	token, err := auth.IssueToken("user-2")
	require.NoError(t, err)

	m := NewAuthMiddleware(auth)
	handler := m.Require(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user-2", UserID(r))
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/catalogues/c1/render?token="+token, nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRejectsMissingToken(t *testing.T) {
	m := NewAuthMiddleware(service.NewAuthService(nil, "test-secret"))
	handler := m.Require(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/designs", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRejectsForgedToken(t *testing.T) {
	other := service.NewAuthService(nil, "other-secret")
	token, err := other.IssueToken("user-3")
	require.NoError(t, err)

	m := NewAuthMiddleware(service.NewAuthService(nil, "test-secret"))
	handler := m.Require(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/designs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
