package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/adityaverma/portfolio-backend/internal/auth"
	"github.com/adityaverma/portfolio-backend/internal/database"
)

// Machine-readable reason codes for 401 responses.
const (
	CodeMissingToken = "MISSING_TOKEN"
	CodeInvalidToken = "INVALID_TOKEN"
	CodeExpiredToken = "EXPIRED_TOKEN"
)

// Identity is the resolved caller attached to the request context by RequireAuth.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  string
}

type identityContextKey struct{}

// RequireAuth guards mutation endpoints: it extracts a bearer token, verifies
// it, re-resolves the subject against the users table (the break-glass admin
// subject skips the lookup), and rejects the request otherwise. The wrapped
// handler never runs on a failure branch.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeAuthError(w, CodeMissingToken, "Missing authorization token")
				return
			}

			claims, err := auth.ParseToken(token, secret)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					writeAuthError(w, CodeExpiredToken, "Token expired")
					return
				}
				writeAuthError(w, CodeInvalidToken, "Invalid token")
				return
			}

			identity, err := resolveIdentity(r.Context(), claims)
			if err != nil {
				writeAuthError(w, CodeInvalidToken, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext extracts the caller resolved by RequireAuth.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(Identity)
	return identity, ok
}

// resolveIdentity maps token claims back to a caller. The synthetic
// default-admin subject never touches storage; database subjects must still
// exist (the account may have been removed after the token was issued).
func resolveIdentity(ctx context.Context, claims *auth.Claims) (Identity, error) {
	if claims.UserID == auth.DefaultAdminID {
		return Identity{ID: auth.DefaultAdminID, Role: auth.RoleAdmin}, nil
	}

	userID, err := strconv.Atoi(claims.UserID)
	if err != nil {
		return Identity{}, errors.New("unknown subject")
	}

	var id int
	var name, email, role string
	err = database.MySQLDB.QueryRowContext(ctx, `
		SELECT id, name, email, role FROM users WHERE id = ?
	`, userID).Scan(&id, &name, &email, &role)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("auth: user lookup failed: %v", err)
		}
		return Identity{}, errors.New("unknown subject")
	}

	return Identity{ID: strconv.Itoa(id), Name: name, Email: email, Role: role}, nil
}

func extractBearerToken(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeAuthError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
		"code":    code,
	})
}
