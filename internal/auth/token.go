package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAdminID is the synthetic subject used by the break-glass admin login.
// It never collides with a database user id (those are stringified integers).
const DefaultAdminID = "default-admin"

// RoleAdmin is the only role the admin panel cares about.
const RoleAdmin = "admin"

var (
	// ErrTokenExpired means the token was well-formed but its expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed covers everything else: bad format, bad signature, wrong algorithm.
	ErrTokenMalformed = errors.New("token malformed or invalid")
)

// Claims is the JWT payload: subject identity plus role.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed HS256 token for the given subject and role,
// expiring ttl from now. Tokens are self-contained; there is no server-side
// session table and no revocation before expiry.
func GenerateToken(subjectID, role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: subjectID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "portfolio",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates signature and expiry and returns the embedded claims.
// Failures are ErrTokenExpired or ErrTokenMalformed; callers can errors.Is them.
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
