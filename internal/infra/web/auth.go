package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// RoleClaims carries the caller role inside a signed bearer token. The
// gateway trusts a valid token's role over anything in the request body.
type RoleClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthManager validates bearer tokens when a signing secret is
// configured. It only reads claims; this service mints nothing.
type AuthManager struct {
	secret []byte
}

func NewAuthManager(secret string) *AuthManager {
	return &AuthManager{secret: []byte(secret)}
}

// Enabled reports whether token validation is configured at all.
func (a *AuthManager) Enabled() bool { return len(a.secret) > 0 }

// RoleFromRequest returns the role claim of a valid bearer token, or an
// error when no usable token is present. A missing token is not a
// request failure: callers fall back to other role sources.
func (a *AuthManager) RoleFromRequest(r *http.Request) (string, error) {
	if !a.Enabled() {
		return "", errors.New("auth disabled")
	}
	hdr := r.Header.Get("Authorization")
	if hdr == "" || !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
		return "", errors.New("missing token")
	}

	claims := &RoleClaims{}
	tkn, err := jwt.ParseWithClaims(strings.TrimSpace(hdr[7:]), claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", errors.New("invalid token")
	}
	return claims.Role, nil
}
