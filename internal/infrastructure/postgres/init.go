package postgres

import (
	"log"

	"github.com/lumora/lumora-unlock-service/internal/config"
	"github.com/lumora/lumora-unlock-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.UnlockConfig) *gorm.DB {
	dsn := cfg.UnlockDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.UnlockSessionModel{},
		&models.AdAttemptModel{},
		&models.SmartlinkModel{},
		&models.FraudProfileModel{},
		&models.FraudClaimedCodeModel{},
		&models.RewardBalanceModel{},
		&models.RewardTransactionModel{},
		&models.PendingRewardModel{},
		&models.ContentModel{},
		&models.SettingModel{},
	)

	return db
}
