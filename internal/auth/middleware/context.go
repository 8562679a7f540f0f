package auth

import "context"

type ctxKey string

const ctxKeyProfile ctxKey = "profile"

func WithProfileID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyProfile, id)
}

func ProfileIDFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeyProfile); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
