package config

import (
	"os"
	"time"
)

type Config struct {
	Port              string
	Env               string
	MongoURI          string
	MongoDatabase     string
	RedisAddr         string
	MetricsPort       string
	ReconcileInterval time.Duration
}

func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		MongoURI:          getEnv("MONGO_URI", ""),
		MongoDatabase:     getEnv("MONGO_DATABASE", "opencircle"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		MetricsPort:       getEnv("METRICS_PORT", "9090"),
		ReconcileInterval: getDurationEnv("RECONCILE_INTERVAL", 5*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
