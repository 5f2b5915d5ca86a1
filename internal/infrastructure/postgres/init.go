package postgres

import (
	"log"

	"github.com/pawlink/pool-service/internal/config"
	"github.com/pawlink/pool-service/internal/infrastructure/logger"
	"github.com/pawlink/pool-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.PoolConfig) *gorm.DB {
	dsn := cfg.PoolDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.ContractModel{}, &models.PaymentModel{},
		&models.PoolTransactionModel{}, &models.DisputeModel{},
		&logger.AdminActionEvent{}, &logger.DisputeResolvedEvent{},
	)

	return db
}
