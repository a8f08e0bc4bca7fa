package db

import (
	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Product{},
		&model.ProductComment{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", err)
		return err
	}

	logger.Info("Database migrations completed", map[string]interface{}{
		"models": len(models),
	})
	return nil
}
