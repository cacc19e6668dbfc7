package services

import "context"

type originKey struct{}

// WithOrigin records the account that caused the work carried by ctx.
func WithOrigin(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, originKey{}, accountID)
}

func originFrom(ctx context.Context) string {
	v, _ := ctx.Value(originKey{}).(string)
	return v
}
