package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type PoolConfig struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	PoolDB     `yaml:"pool_db"`
	LogConfig  `yaml:"log_config"`
	PayMongo   `yaml:"paymongo"`
	Kafka      `yaml:"kafka-service"`
	Sweeps     `yaml:"sweeps"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type PoolDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type PayMongo struct {
	BaseURL       string `yaml:"base_url" env:"PAYMONGO_BASE_URL" env-default:"https://api.paymongo.com/v1"`
	SecretKey     string `yaml:"secret_key" env:"PAYMONGO_SECRET_KEY"`
	WebhookSecret string `yaml:"webhook_secret" env:"PAYMONGO_WEBHOOK_SECRET"`
}

type Kafka struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type Sweeps struct {
	PaymentExpiry time.Duration `yaml:"payment_expiry" env-default:"1m"`
	RefundRetry   time.Duration `yaml:"refund_retry" env-default:"5m"`
}

func MustLoad() *PoolConfig {

	// Processing env config variable and file
	configPath := os.Getenv("POOL_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("POOL_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg PoolConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
