package models

import (
	"time"

	"github.com/google/uuid"
)

// PredictionRecord сохраненный результат предсказания RUL по одному батчу
type PredictionRecord struct {
	// Основные идентификаторы
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DeviceID string    `json:"device_id" gorm:"type:varchar(100);index"`

	// Метаданные батча
	Mode        string  `json:"mode" gorm:"type:varchar(50)"`
	SampleCount int     `json:"sample_count" gorm:"not null"`
	BatchStart  float64 `json:"batch_start"`
	BatchEnd    float64 `json:"batch_end"`

	// Результат предсказания
	RULHours     float64 `json:"rul_hours" gorm:"not null"`
	RULFormatted string  `json:"rul_formatted" gorm:"type:varchar(100)"`
	RULUnit      string  `json:"rul_unit" gorm:"type:varchar(20)"`
	HealthStatus string  `json:"health_status" gorm:"type:varchar(100)"`

	// Извлеченные фичи как JSONB (32 значения по 4 каналам + магнитуда)
	Features FeatureExtraction `json:"features" gorm:"serializer:json;type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
}

func (PredictionRecord) TableName() string {
	return "rul_predictions"
}
