package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityaverma/portfolio-backend/internal/auth"
	"github.com/adityaverma/portfolio-backend/internal/database"
)

const testSecret = "test-secret"

func doAuthRequest(t *testing.T, authorization string) (*httptest.ResponseRecorder, *bool) {
	t.Helper()
	handlerRan := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerRan = true
		w.WriteHeader(http.StatusOK)
	})
	guarded := RequireAuth(testSecret)(next)

	req := httptest.NewRequest(http.MethodPost, "/api/skills", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	return rec, &handlerRan
}

func decodeAuthError(t *testing.T, rec *httptest.ResponseRecorder) (code string, success bool) {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code, body.Success
}

func TestRequireAuthMissingHeader(t *testing.T) {
	rec, ran := doAuthRequest(t, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	code, success := decodeAuthError(t, rec)
	assert.Equal(t, CodeMissingToken, code)
	assert.False(t, success)
	assert.False(t, *ran)
}

func TestRequireAuthNonBearerScheme(t *testing.T) {
	rec, ran := doAuthRequest(t, "Basic dXNlcjpwYXNz")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	code, _ := decodeAuthError(t, rec)
	assert.Equal(t, CodeMissingToken, code)
	assert.False(t, *ran)
}

func TestRequireAuthMalformedToken(t *testing.T) {
	rec, ran := doAuthRequest(t, "Bearer not-a-jwt")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	code, _ := decodeAuthError(t, rec)
	assert.Equal(t, CodeInvalidToken, code)
	assert.False(t, *ran)
}

func TestRequireAuthWrongSecret(t *testing.T) {
	token, err := auth.GenerateToken(auth.DefaultAdminID, auth.RoleAdmin, "other-secret", time.Hour)
	require.NoError(t, err)

	rec, ran := doAuthRequest(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	code, _ := decodeAuthError(t, rec)
	assert.Equal(t, CodeInvalidToken, code)
	assert.False(t, *ran)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	token, err := auth.GenerateToken(auth.DefaultAdminID, auth.RoleAdmin, testSecret, -time.Minute)
	require.NoError(t, err)

	rec, ran := doAuthRequest(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	code, _ := decodeAuthError(t, rec)
	assert.Equal(t, CodeExpiredToken, code)
	assert.False(t, *ran)
}

func TestRequireAuthDefaultAdminPasses(t *testing.T) {
	token, err := auth.GenerateToken(auth.DefaultAdminID, auth.RoleAdmin, testSecret, time.Hour)
	require.NoError(t, err)

	var gotIdentity Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		gotIdentity = identity
		w.WriteHeader(http.StatusOK)
	})
	guarded := RequireAuth(testSecret)(next)

	req := httptest.NewRequest(http.MethodPost, "/api/skills", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, auth.DefaultAdminID, gotIdentity.ID)
	assert.Equal(t, auth.RoleAdmin, gotIdentity.Role)
}

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	database.MySQLDB = db
	t.Cleanup(func() {
		database.MySQLDB = nil
		db.Close()
	})
	return mock
}

func TestRequireAuthDatabaseSubjectPasses(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery("SELECT id, name, email, role FROM users").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role"}).
			AddRow(7, "Ada", "ada@example.com", "admin"))

	token, err := auth.GenerateToken("7", "admin", testSecret, time.Hour)
	require.NoError(t, err)

	var gotIdentity Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		gotIdentity = identity
		w.WriteHeader(http.StatusOK)
	})
	guarded := RequireAuth(testSecret)(next)

	req := httptest.NewRequest(http.MethodPost, "/api/skills", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, Identity{ID: "7", Name: "Ada", Email: "ada@example.com", Role: "admin"}, gotIdentity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A token whose subject was deleted after issuance must stop authenticating.
func TestRequireAuthDeletedSubjectRejected(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery("SELECT id, name, email, role FROM users").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role"}))

	token, err := auth.GenerateToken("7", "admin", testSecret, time.Hour)
	require.NoError(t, err)

	rec, ran := doAuthRequest(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	code, _ := decodeAuthError(t, rec)
	assert.Equal(t, CodeInvalidToken, code)
	assert.False(t, *ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"bare token", "abc123", ""},
		{"bearer", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"extra parts", "Bearer abc 123", ""},
		{"wrong scheme", "Token abc123", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBearerToken(tt.header))
		})
	}
}
