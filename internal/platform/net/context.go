// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyToken  ctxKey = "bearer_token"
	keyViewID ctxKey = "view_id"
)

// WithRequest annotates context with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return ctx
}

// WithToken annotates context with the caller's bearer token, forwarded upstream as-is
func WithToken(ctx context.Context, token string) context.Context {
	if token != "" {
		ctx = context.WithValue(ctx, keyToken, token)
	}
	return ctx
}

// WithView annotates context with the reporting view id addressed by the request
func WithView(ctx context.Context, viewID string) context.Context {
	if viewID != "" {
		ctx = context.WithValue(ctx, keyViewID, viewID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// Token returns the bearer token on the context if present
func Token(ctx context.Context) string {
	if v, ok := ctx.Value(keyToken).(string); ok {
		return v
	}
	return ""
}

// ViewID returns the view id on the context if present
func ViewID(ctx context.Context) string {
	if v, ok := ctx.Value(keyViewID).(string); ok {
		return v
	}
	return ""
}
