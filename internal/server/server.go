package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"eshop/internal/config"
	"eshop/internal/handler"
	"eshop/internal/logger"
	"eshop/internal/metrics"
	"eshop/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Handlers struct {
	Cart          *handler.CartHandler
	Order         *handler.OrderHandler
	Address       *handler.AddressHandler
	Product       *handler.ProductHandler
	Blog          *handler.BlogHandler
	Newsletter    *handler.NewsletterHandler
	AdminOrder    *handler.AdminOrderHandler
	AdminProduct  *handler.AdminProductHandler
	AdminCustomer *handler.AdminCustomerHandler
	Health        *handler.HealthHandler
}

type Deps struct {
	Cfg       config.Config
	Customers middleware.CustomerAuthenticator
	Limiter   *middleware.RateLimiter
	Metrics   *metrics.ServerMetrics
	Handlers  Handlers
}

// Newは共通ミドルウェアとルートを組み立てたechoを返す。
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.AccessLog())
	if d.Metrics != nil {
		e.Use(middleware.Metrics(d.Metrics))
	}
	// panicもアクセスログとメトリクスに500として残す
	e.Use(echomw.Recover())

	//CORS（FE_URLがあるときだけ）
	if d.Cfg.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{d.Cfg.FEURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.HeaderRequestID},
			ExposeHeaders:    []string{middleware.HeaderRequestID},
			AllowCredentials: true,
		}))
	}

	RegisterRoutes(e, d)
	return e
}

// Startはctxが終わるまで待ち、終わったら処理中のリクエストを待って止める。
func Start(ctx context.Context, e *echo.Echo, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("server started", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.L().Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}
