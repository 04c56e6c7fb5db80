package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gw-rate-converter/internal/models"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort string `envconfig:"APP_PORT" default:"8080"`
	GRPCPort string `envconfig:"GRPC_PORT" default:"50052"`
	Quote    QuoteConfig
	Kafka    KafkaConfig
	Log      LogConfig
}

type QuoteConfig struct {
	BaseURL string        `envconfig:"QUOTE_BASE_URL" default:"https://economia.awesomeapi.com.br/json/last"`
	APIKey  string        `envconfig:"QUOTE_API_KEY"`
	Timeout time.Duration `envconfig:"QUOTE_TIMEOUT" default:"10s"`
	Pairs   []string      `envconfig:"QUOTE_PAIRS" default:"USD-BRL,EUR-BRL"`
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"conversion-commits"`
	Enabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" default:"converter.log"`
}

func NewConfig() (*Config, error) {
	envFile := "config.env"

	if err := godotenv.Load(envFile); err != nil {
		log.Printf("warning: не удалось загрузить файл %s, используются только системные переменные окружения: %v", envFile, err)
	}

	return Process()
}

// Process reads the configuration from the environment only.
func Process() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации: %w", err)
	}

	if _, err := cfg.Quote.CurrencyPairs(); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации: %w", err)
	}
	if cfg.Quote.Timeout <= 0 {
		return nil, fmt.Errorf("ошибка парсинга конфигурации: QUOTE_TIMEOUT must be positive, got %s", cfg.Quote.Timeout)
	}

	return &cfg, nil
}

// CurrencyPairs parses the configured pair codes, dropping duplicates.
func (q *QuoteConfig) CurrencyPairs() ([]models.CurrencyPair, error) {
	pairs := make([]models.CurrencyPair, 0, len(q.Pairs))
	seen := make(map[string]struct{}, len(q.Pairs))
	for _, code := range q.Pairs {
		if strings.TrimSpace(code) == "" {
			continue
		}
		pair, err := models.ParsePair(code)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[pair.Code()]; ok {
			continue
		}
		seen[pair.Code()] = struct{}{}
		pairs = append(pairs, pair)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("QUOTE_PAIRS must name at least one pair")
	}
	return pairs, nil
}
