package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	API      APIConfig
	Telegram TelegramConfig
	Metrics  MetricsConfig
}

type APIConfig struct {
	BaseURL string // restaurant service, e.g. http://127.0.0.1:5000
}

type TelegramConfig struct {
	Token string
	Debug bool
}

type MetricsConfig struct {
	Addr string // prometheus listen address; empty disables the listener
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://127.0.0.1:5000"),
		},
		Telegram: TelegramConfig{
			Token: getEnv("TOKEN", ""),
			Debug: getEnv("TELEGRAM_DEBUG", "") == "1",
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ""),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
