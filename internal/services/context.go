package services

import "context"

type contextKey string

const (
	issueKey     contextKey = "issue"
	kindKey      contextKey = "kind"
	requestIDKey contextKey = "request_id"
)

// WithIssue annotates context with the issue number that triggered an ingestion.
func WithIssue(ctx context.Context, issue string) context.Context {
	if issue == "" {
		return ctx
	}
	return context.WithValue(ctx, issueKey, issue)
}

// IssueFromContext returns the issue number if present.
func IssueFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(issueKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithKind annotates context with the catalog kind being processed (movies/tv-series).
func WithKind(ctx context.Context, kind string) context.Context {
	if kind == "" {
		return ctx
	}
	return context.WithValue(ctx, kindKey, kind)
}

// KindFromContext returns the catalog kind if present.
func KindFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(kindKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
