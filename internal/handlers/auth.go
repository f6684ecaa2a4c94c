package handlers

import (
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/adityaverma/portfolio-backend/internal/auth"
	"github.com/adityaverma/portfolio-backend/internal/config"
	"github.com/adityaverma/portfolio-backend/internal/database"
	"github.com/adityaverma/portfolio-backend/pkg/utils"
)

var authConfig *config.Config

// InitAuth wires the loaded configuration into the auth handlers.
func InitAuth(cfg *config.Config) {
	authConfig = cfg
}

// LoginRequest is the JSON body for POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the break-glass admin credentials first, then
// the users table. Both failure branches (unknown email, wrong password)
// return the identical response so callers cannot probe registered emails.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	// Break-glass path: env-configured admin, checked before storage.
	// Reduced security by construction (plaintext env compare); disable or
	// hash in any deployment that has real user accounts.
	if authConfig.HasFallbackAdmin() && constantTimeEquals(req.Email, authConfig.AdminEmail) &&
		constantTimeEquals(req.Password, authConfig.AdminPassword) {
		issueToken(w, auth.DefaultAdminID, auth.RoleAdmin)
		return
	}

	var userID int
	var passwordHash, role string
	err := database.MySQLDB.QueryRowContext(r.Context(), `
		SELECT id, password_hash, role FROM users WHERE email = ?
	`, req.Email).Scan(&userID, &passwordHash, &role)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Printf("login: user lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	valid, err := utils.VerifyPassword(req.Password, passwordHash)
	if err != nil || !valid {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	issueToken(w, strconv.Itoa(userID), role)
}

func issueToken(w http.ResponseWriter, subjectID, role string) {
	token, err := auth.GenerateToken(subjectID, role, authConfig.JWTSecret, authConfig.TokenTTL)
	if err != nil {
		log.Printf("login: token generation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
	})
}

func constantTimeEquals(a, b string) bool {
	return len(a) == len(b) && subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
