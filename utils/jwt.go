package utils

import (
	"encoding/json"
	"strings"
	"time"

	"wellportal/models"

	"github.com/golang-jwt/jwt"
)

// rolePrefix is stripped from authority names issued by the backend.
const rolePrefix = "ROLE_"

// tokenParser only decodes. Signatures are the backend's business; the portal
// never holds the signing key.
var tokenParser = &jwt.Parser{}

// TokenClaims is the subset of access token claims the portal reads.
type TokenClaims struct {
	Subject   string
	Email     string
	UserID    int64
	Role      models.Role
	ExpiresAt time.Time
}

// DecodeTokenClaims decodes a token without verifying its signature.
func DecodeTokenClaims(token string) (*TokenClaims, error) {
	claims, err := decodeClaims(token)
	if err != nil {
		return nil, err
	}
	out := &TokenClaims{Role: roleFromClaims(claims)}
	out.Subject, _ = claims["sub"].(string)
	out.Email, _ = claims["email"].(string)
	if id, ok := numericClaim(claims["userId"]); ok {
		out.UserID = int64(id)
	}
	if exp, ok := numericClaim(claims["exp"]); ok {
		out.ExpiresAt = time.UnixMilli(int64(exp * 1000))
	}
	return out, nil
}

func decodeClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := tokenParser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// IsTokenValid reports whether token is well formed and its exp claim lies
// strictly after now. Anything that cannot be decoded is invalid.
func IsTokenValid(token string, now time.Time) bool {
	if token == "" || strings.Count(token, ".") != 2 {
		return false
	}
	claims, err := decodeClaims(token)
	if err != nil {
		return false
	}
	exp, ok := numericClaim(claims["exp"])
	if !ok {
		return false
	}
	return exp*1000 > float64(now.UnixMilli())
}

// RoleFromToken extracts the role from the first authority, falling back to
// the plain role claim. It returns "" when neither is present.
func RoleFromToken(token string) models.Role {
	claims, err := decodeClaims(token)
	if err != nil {
		return ""
	}
	return roleFromClaims(claims)
}

func roleFromClaims(claims jwt.MapClaims) models.Role {
	if auths, ok := claims["authorities"].([]interface{}); ok && len(auths) > 0 {
		if first, ok := auths[0].(string); ok && first != "" {
			return models.Role(strings.TrimPrefix(first, rolePrefix))
		}
	}
	if role, ok := claims["role"].(string); ok {
		return models.Role(strings.TrimPrefix(role, rolePrefix))
	}
	return ""
}

func numericClaim(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
