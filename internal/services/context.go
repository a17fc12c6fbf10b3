package services

import "context"

type contextKey string

const (
	runIDKey   contextKey = "run_id"
	movieIDKey contextKey = "movie_id"
)

// WithRunID annotates context with the shuffle run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(runIDKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithMovieID annotates context with the Wikipedia movie identifier.
func WithMovieID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, movieIDKey, id)
}

// MovieIDFromContext extracts the movie identifier if present.
func MovieIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(movieIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}
