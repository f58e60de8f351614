package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type UnlockConfig struct {
	Env          string `yaml:"env" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	UnlockDB     `yaml:"unlock_db"`
	Redis        `yaml:"redis"`
	KafkaService `yaml:"kafka-service"`
	LogConfig    `yaml:"log_config"`
	Policy       `yaml:"policy"`
	Referral     `yaml:"referral"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8080"`
}

type UnlockDB struct {
	Dsn            string `yaml:"dsn" env:"UNLOCK_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path"`
}

type Redis struct {
	Addr     string `yaml:"addr" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
}

type KafkaService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
}

// Policy carries every tunable of the unlock flow. No client-supplied timing
// value ever feeds these checks; the server clock is the only time source.
type Policy struct {
	MinWatchTimeSeconds int64 `yaml:"min_watch_time_seconds" env-default:"12"`
	CooldownSeconds     int64 `yaml:"cooldown_seconds" env-default:"15"`
	TokenExpirySeconds  int64 `yaml:"token_expiry_seconds" env-default:"300"`
	AntiRepeatWindow    int   `yaml:"anti_repeat_window" env-default:"3"`
	DefaultAdsRequired  int32 `yaml:"default_ads_required" env-default:"3"`
	MaxAdsReduction     int32 `yaml:"max_ads_reduction_percent" env-default:"50"`
}

type Referral struct {
	Secret             string `yaml:"secret" env:"REFERRAL_SECRET"`
	LegacySecret       string `yaml:"legacy_secret" env:"REFERRAL_LEGACY_SECRET"`
	LinkBaseURL        string `yaml:"link_base_url"`
	MaxCodeAgeDays     int    `yaml:"max_code_age_days" env-default:"30"`
	DeviceClaimCeiling int    `yaml:"device_claim_ceiling" env-default:"3"`

	WelcomeBonusCoins    int64 `yaml:"welcome_bonus_coins" env-default:"20"`
	ReferrerRewardCoins  int64 `yaml:"referrer_reward_coins" env-default:"50"`
	ReferrerRewardCards  int32 `yaml:"referrer_reward_cards" env-default:"1"`
	ReferrerRewardAdsCut int32 `yaml:"referrer_reward_ads_cut_percent" env-default:"5"`

	MinTimeSpentSeconds int64 `yaml:"min_time_spent_seconds" env-default:"120"`
	MinUnlocks          int32 `yaml:"min_unlocks" env-default:"1"`
}

func MustLoad() *UnlockConfig {

	// Processing env config variable and file
	configPath := os.Getenv("UNLOCK_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("UNLOCK_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg UnlockConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
