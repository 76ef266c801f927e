package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"eshop/internal/config"
	"eshop/internal/handler"
	"eshop/internal/infra/db"
	"eshop/internal/infra/events"
	infraRepo "eshop/internal/infra/repository"
	"eshop/internal/logger"
	"eshop/internal/metrics"
	"eshop/internal/middleware"
	"eshop/internal/server"
	"eshop/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//.envは任意（無ければ環境変数のみ）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.GoEnv)
	defer logger.Sync()
	log := logger.L()

	//DB接続
	gormDB, err := db.Connect(cfg.DSN(), cfg.IsProd())
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("db migrate", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	blogRepo := infraRepo.NewBlogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//イベント送信（ブローカー未設定なら捨てる）
	var publisher usecase.OrderEventPublisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		defer kp.Close()
		publisher = kp
		log.Info("kafka publisher enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaOrderTopic))
	}

	//Usecase生成
	cartUC := usecase.NewCartUsecase(txm, publisher)
	orderUC := usecase.NewOrderUsecase(txm)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, publisher, cfg.StrictOrderTransitions)
	productUC := usecase.NewProductUsecase(productRepo, auditRepo, txm)
	customerUC := usecase.NewCustomerUsecase(customerRepo, orderRepo)
	dashboardUC := usecase.NewDashboardUsecase(orderRepo, customerRepo, productRepo)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	blogUC := usecase.NewBlogUsecase(blogRepo)

	m := metrics.NewServerMetrics("api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.RunCleanup(ctx)

	//Handler生成
	e := server.New(server.Deps{
		Cfg:       cfg,
		Customers: customerUC,
		Limiter:   limiter,
		Metrics:   m,
		Handlers: server.Handlers{
			Cart:          handler.NewCartHandler(cartUC, m),
			Order:         handler.NewOrderHandler(orderUC),
			Product:       handler.NewProductHandler(productUC),
			Newsletter:    handler.NewNewsletterHandler(customerUC),
			Address:       handler.NewAddressHandler(addressUC),
			Blog:          handler.NewBlogHandler(blogUC),
			AdminOrder:    handler.NewAdminOrderHandler(adminOrderUC),
			AdminProduct:  handler.NewAdminProductHandler(productUC),
			AdminCustomer: handler.NewAdminCustomerHandler(customerUC, dashboardUC),
			Health:        handler.NewHealthHandler(sqlDB),
		},
	})

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}
	if err := server.Start(ctx, e, addr); err != nil {
		log.Error("server stopped", zap.Error(err))
	}
}
