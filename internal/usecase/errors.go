package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"eshop/internal/logger"

	"go.uber.org/zap"
)

// HTTPError はhandlerでそのままレスポンスにする。
type HTTPError struct {
	Status  int
	Message string
	Details string
}

func (e *HTTPError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%d: %s (%s)", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func NewHTTPErrorWithDetails(status int, message string, details string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Details: details,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func errUnauthorized() error {
	return NewHTTPError(http.StatusUnauthorized, "unauthorized")
}

func errForbidden() error {
	return NewHTTPError(http.StatusForbidden, "forbidden")
}

func errInvalid(message string, details string) error {
	return NewHTTPErrorWithDetails(http.StatusBadRequest, message, details)
}

func errNotFound(message string) error {
	return NewHTTPError(http.StatusNotFound, message)
}

func errConflict(message string, details string) error {
	return NewHTTPErrorWithDetails(http.StatusConflict, message, details)
}

// errInternal はストレージ障害をログに残して500にする。詳細はクライアントへ返さない。
func errInternal(ctx context.Context, op string, err error) error {
	logger.FromCtx(ctx).Error("storage failure", zap.String("op", op), zap.Error(err))
	return NewHTTPError(http.StatusInternalServerError, "db error")
}

// txErr はWithinTxの戻り値を整える。HTTPError以外（commit失敗など）は500。
func txErr(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	return errInternal(ctx, op, err)
}
