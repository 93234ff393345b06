package database

import (
	"fmt"
	"time"

	"ecoharvest-api/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the MySQL connection, waiting for the database to come up.
func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < 5; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err == nil {
			break
		}
		log.Warn("failed to connect to database, retrying in 2 seconds",
			zap.Int("attempt", i+1),
			zap.Error(err))
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after 5 attempts: %w", err)
	}

	log.Info("connected to MySQL")
	return db, nil
}

// AutoMigrate syncs the schema for every entity.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.SubCategory{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductCertification{},
		&models.ImportReceipt{},
		&models.Batch{},
		&models.BatchDocument{},
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentDetail{},
		&models.Cart{},
		&models.CartItem{},
	)
}
