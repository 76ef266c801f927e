package middleware

import (
	"time"

	"eshop/internal/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func AccessLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				//echoのエラーハンドラでステータスを確定させる
				c.Error(err)
			}

			req := c.Request()
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			}
			// customer_idはAuthJWTの後ならFromCtxが付ける
			l := logger.FromCtx(req.Context())
			if c.Response().Status >= 500 {
				l.Error("request", fields...)
			} else {
				l.Info("request", fields...)
			}
			return nil
		}
	}
}
