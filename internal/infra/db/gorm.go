package db

import (
	"fmt"

	"eshop/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(dsn string, prod bool) (*gorm.DB, error) {
	level := gormlogger.Info
	if prod {
		level = gormlogger.Warn
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	return db, nil
}

// 顧客ごとにpendingは1件だけ（カート）
const pendingOrderIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS ux_orders_customer_pending ON orders (customer_id) WHERE status = 'pending'`

// Migrate はテーブル作成と部分ユニークインデックスの作成を行う。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Customer{},
		&model.Address{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
		&model.InventoryAdjustment{},
		&model.BlogAuthor{},
		&model.BlogCategory{},
		&model.BlogPost{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return createIndexes(db)
}

// AutoMigrateで表現できない部分インデックス
func createIndexes(db *gorm.DB) error {
	if err := db.Exec(pendingOrderIndexSQL).Error; err != nil {
		return fmt.Errorf("create pending index: %w", err)
	}
	return nil
}
