package ctxkeys

import (
	"context"

	"github.com/templui/corpsite/internal/auth"
	"github.com/templui/corpsite/internal/config"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	CallerKey contextKey = "caller"
	ConfigKey contextKey = "config"
)

// Caller returns the authenticated caller set by the guard, if any.
func Caller(ctx context.Context) (auth.Caller, bool) {
	c, ok := ctx.Value(CallerKey).(auth.Caller)
	return c, ok
}

func WithCaller(ctx context.Context, c auth.Caller) context.Context {
	return context.WithValue(ctx, CallerKey, c)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}
