package middleware

import (
	"context"

	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
)

type contextKey string

const (
	ctxEmail       contextKey = "actor_email"
	ctxName        contextKey = "actor_name"
	ctxRole        contextKey = "actor_role"
	ctxCartSession contextKey = "cart_session"
)

// EmailFromContext returns the authenticated caller's email, lowercased.
func EmailFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxEmail)
}

func NameFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxName)
}

func RoleFromContext(ctx context.Context) enums.Role {
	return enums.Role(stringValue(ctx, ctxRole))
}

// CartSessionFromContext returns the cart session resolved by CartSession.
func CartSessionFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxCartSession)
}

// WithActor injects the authenticated caller into the context.
func WithActor(ctx context.Context, email, name string, role enums.Role) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxEmail, email)
	ctx = context.WithValue(ctx, ctxName, name)
	return context.WithValue(ctx, ctxRole, string(role))
}

func WithCartSession(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartSession, sessionID)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
