package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller, resolved once at the HTTP boundary
// and passed explicitly into every operation that cares. A nil *Identity
// means the caller is anonymous.
type Identity struct {
	Subject string
	Name    string
	Email   string
}

const tokenTTL = 7 * 24 * time.Hour

// IssueToken signs a bearer token for the given identity.
func IssueToken(secret string, ident Identity) (string, error) {
	if ident.Subject == "" {
		return "", fmt.Errorf("identity subject is required")
	}
	claims := jwt.MapClaims{
		"sub":  ident.Subject,
		"name": ident.Name,
		"exp":  time.Now().Add(tokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}
	if ident.Email != "" {
		claims["email"] = ident.Email
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a bearer token and returns the identity it carries.
func ParseToken(secret, tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	ident := &Identity{}
	if sub, ok := claims["sub"].(string); ok {
		ident.Subject = sub
	}
	if name, ok := claims["name"].(string); ok {
		ident.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		ident.Email = email
	}
	if ident.Subject == "" {
		return nil, fmt.Errorf("token missing subject")
	}
	return ident, nil
}

// FromRequest inspects the Authorization header and returns the caller's
// identity if a valid bearer token is present. Missing or invalid tokens
// yield nil rather than an error; operations that require authentication
// reject a nil identity themselves.
func FromRequest(secret string, r *http.Request) *Identity {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil
	}
	ident, err := ParseToken(secret, parts[1])
	if err != nil {
		return nil
	}
	return ident
}
