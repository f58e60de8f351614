package setup

import (
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/lumora/lumora-unlock-service/internal/config"
	"github.com/lumora/lumora-unlock-service/internal/domain"
	publisher "github.com/lumora/lumora-unlock-service/internal/infrastructure/kafka"
	auditlogger "github.com/lumora/lumora-unlock-service/internal/infrastructure/logger"
	"github.com/lumora/lumora-unlock-service/internal/infrastructure/metrics"
	"github.com/lumora/lumora-unlock-service/internal/infrastructure/postgres"
	"github.com/lumora/lumora-unlock-service/internal/infrastructure/postgres/repository"
	"github.com/lumora/lumora-unlock-service/internal/infrastructure/redis"
)

type Dependencies struct {
	Config       *config.UnlockConfig
	DB           *gorm.DB
	Redis        *goredis.Client
	Publisher    *publisher.DefaultKafkaPublisher
	Subscriber   *publisher.DefaultKafkaSubscriber
	Metrics      *metrics.UnlockMetrics
	AuditLogger  auditlogger.ReferralAuditLogger
	Repositories *Repositories
}

type Repositories struct {
	SessionRepo   domain.SessionRepository
	AttemptRepo   domain.AttemptRepository
	SmartlinkRepo domain.SmartlinkRepository
	FraudRepo     domain.FraudProfileRepository
	LedgerRepo    domain.LedgerRepository
	PendingRepo   domain.PendingRewardRepository
	ContentRepo   domain.ContentRepository
	SettingsRepo  domain.SettingsRepository
	RecentLinks   domain.RecentLinkStore
}

func InitializeDependencies(cfg *config.UnlockConfig) (*Dependencies, error) {
	db := postgres.MustInitDB(cfg)

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	kafkaPublisher := publisher.NewDefaultKafkaPublisher(brokers)
	kafkaSubscriber := publisher.NewDefaultKafkaSubscriber(brokers)

	repos := &Repositories{
		SessionRepo:   repository.NewDefaultSessionRepository(db),
		AttemptRepo:   repository.NewDefaultAttemptRepository(db),
		SmartlinkRepo: repository.NewDefaultSmartlinkRepository(db),
		FraudRepo:     repository.NewDefaultFraudProfileRepository(db),
		LedgerRepo:    repository.NewDefaultLedgerRepository(db),
		PendingRepo:   repository.NewDefaultPendingRewardRepository(db),
		ContentRepo:   repository.NewDefaultContentRepository(db),
		SettingsRepo:  repository.NewDefaultSettingsRepository(db, cfg.Policy.DefaultAdsRequired),
		RecentLinks: redis.NewRecentLinkStore(redisClient,
			cfg.Policy.AntiRepeatWindow,
			time.Duration(cfg.Policy.TokenExpirySeconds)*time.Second),
	}

	return &Dependencies{
		Config:       cfg,
		DB:           db,
		Redis:        redisClient,
		Publisher:    kafkaPublisher,
		Subscriber:   kafkaSubscriber,
		Metrics:      metrics.NewUnlockMetrics(),
		AuditLogger:  auditlogger.NewPGReferralAuditLogger(db),
		Repositories: repos,
	}, nil
}
