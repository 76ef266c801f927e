package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	requestIDKey  ctxKey = "request_id"
	customerIDKey ctxKey = "customer_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

func WithCustomerID(ctx context.Context, customerID int64) context.Context {
	return context.WithValue(ctx, customerIDKey, customerID)
}

func CustomerIDFrom(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(customerIDKey).(int64)
	return v, ok
}

// FromCtxはrequest_id / customer_id を付けたロガーを返す。
func FromCtx(ctx context.Context) *zap.Logger {
	l := L()
	if reqID := RequestIDFrom(ctx); reqID != "" {
		l = l.With(zap.String("request_id", reqID))
	}
	if id, ok := CustomerIDFrom(ctx); ok {
		l = l.With(zap.Int64("customer_id", id))
	}
	return l
}
