// configs/config.go
package configs

import (
	"os"
	"strconv"
)

type Config struct {
	Database    DatabaseConfig
	App         AppConfig
	MQTT        MQTTConfig
	Model       ModelConfig
	Acquisition AcquisitionConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	TimeZone string
}

type AppConfig struct {
	Port     string // HTTP_PORT из .env
	LogLevel string
}

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      int
}

// ModelConfig описывает внешний ML сервис (модель + скейлер)
type ModelConfig struct {
	ServiceURL      string
	TimeoutSec      int
	MinutesPerUnit  float64 // минут в одной единице предсказания модели
	MinBatchSamples int     // минимум сэмплов для надежного предсказания
}

// AcquisitionConfig параметры сбора данных
type AcquisitionConfig struct {
	ServerURL        string  // адрес сервера предсказаний
	SamplingInterval float64 // секунд между сэмплами
	BatchSize        int     // сэмплов в одном батче
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "rul_user"),
			Password: getEnv("DB_PASSWORD", "rul_password"),
			DBName:   getEnv("DB_NAME", "rul_monitor"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "Europe/Moscow"),
		},
		App: AppConfig{
			Port:     getEnv("HTTP_PORT", "5000"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		MQTT: MQTTConfig{
			Broker:   getEnv("MQTT_BROKER", "tcp://localhost:1883"),
			ClientID: getEnv("MQTT_CLIENT_ID", "rul_monitor_service"),
			Username: getEnv("MQTT_USERNAME", ""),
			Password: getEnv("MQTT_PASSWORD", ""),
			QoS:      getEnvAsInt("MQTT_QOS", 1),
		},
		Model: ModelConfig{
			ServiceURL:      getEnv("MODEL_SERVICE_URL", "http://localhost:8000"),
			TimeoutSec:      getEnvAsInt("MODEL_TIMEOUT", 30),
			MinutesPerUnit:  getEnvAsFloat("MODEL_MINUTES_PER_UNIT", 10),
			MinBatchSamples: getEnvAsInt("MODEL_MIN_BATCH_SAMPLES", 50),
		},
		Acquisition: AcquisitionConfig{
			ServerURL:        getEnv("SERVER_URL", "http://localhost:5000"),
			SamplingInterval: getEnvAsFloat("SAMPLING_INTERVAL", 1.0),
			BatchSize:        getEnvAsInt("BATCH_SIZE", 100),
		},
	}
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt получает переменную окружения как int
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat получает переменную окружения как float64
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
