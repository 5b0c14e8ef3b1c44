package auth

import "context"

type claimsContextKey struct{}
type tokenContextKey struct{}

// ContextWithClaims attaches the verified token payload to the context.
func ContextWithClaims(ctx context.Context, payload TokenPayload) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, &payload)
}

// ClaimsFromContext extracts the verified token payload from the context.
func ClaimsFromContext(ctx context.Context) (TokenPayload, bool) {
	if ctx == nil {
		return TokenPayload{}, false
	}
	v, ok := ctx.Value(claimsContextKey{}).(*TokenPayload)
	if !ok || v == nil {
		return TokenPayload{}, false
	}
	return *v, true
}

// ContextWithToken stores the raw bearer token inside the context.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the bearer token if it was previously attached.
func TokenFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(tokenContextKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
