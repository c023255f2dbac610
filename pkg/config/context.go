package config

import "context"

type contextKey string

const managerKey contextKey = "config-manager"

// WithManager attaches a config Manager to the context.
func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, managerKey, m)
}

// ManagerFromContext retrieves the config Manager, or nil when absent.
func ManagerFromContext(ctx context.Context) *Manager {
	m, _ := ctx.Value(managerKey).(*Manager)
	return m
}
