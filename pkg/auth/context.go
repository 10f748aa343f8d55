// Package auth carries the caller's identity through request contexts.
package auth

import (
	"context"
	"slices"
)

const AdminRole = "admin"

// AuthContext is the identity of a caller. The zero value and a nil pointer
// are anonymous and authorized for nothing.
type AuthContext struct {
	Subject string   `json:"sub,omitempty"`
	Roles   []string `json:"roles,omitempty"`
}

func (a *AuthContext) IsAuthorized(role string) bool {
	if a == nil || role == "" {
		return false
	}
	return slices.Contains(a.Roles, role)
}

func (a *AuthContext) IsAnonymous() bool {
	return a == nil || a.Subject == ""
}

type authKey struct{}

func WithAuth(ctx context.Context, a *AuthContext) context.Context {
	return context.WithValue(ctx, authKey{}, a)
}

// FromContext returns nil when no identity was attached.
func FromContext(ctx context.Context) *AuthContext {
	a, _ := ctx.Value(authKey{}).(*AuthContext)
	return a
}
