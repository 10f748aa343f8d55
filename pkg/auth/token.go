package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenVerifier signs and verifies HS256 tokens. The role is read from a
// "roles" list claim or a single "role" claim.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

func (v *TokenVerifier) Issue(subject string, ttl time.Duration, roles ...string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subject,
		"roles": roles,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	if len(roles) == 1 {
		claims["role"] = roles[0]
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func (v *TokenVerifier) Verify(tokenString string) (*AuthContext, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("%w: no secret configured", ErrInvalidToken)
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return contextFromClaims(claims), nil
}

func contextFromClaims(claims jwt.MapClaims) *AuthContext {
	a := &AuthContext{}
	for _, key := range []string{"sub", "username", "email"} {
		if s, ok := claims[key].(string); ok && s != "" {
			a.Subject = s
			break
		}
	}
	add := func(role string) {
		role = strings.TrimSpace(role)
		if role != "" && !a.IsAuthorized(role) {
			a.Roles = append(a.Roles, role)
		}
	}
	switch roles := claims["roles"].(type) {
	case []interface{}:
		for _, r := range roles {
			if s, ok := r.(string); ok {
				add(s)
			}
		}
	case string:
		for _, s := range strings.Split(roles, ",") {
			add(s)
		}
	}
	if role, ok := claims["role"].(string); ok {
		add(role)
	}
	return a
}
