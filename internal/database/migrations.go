// internal/database/migrations.go
package database

import (
	"fmt"
	"log"

	"rul-monitor/internal/models"

	"gorm.io/gorm"
)

// RunMigrations выполняет миграции базы данных
func RunMigrations(db *gorm.DB) error {
	log.Println("🔄 Запуск миграций базы данных...")

	err := db.AutoMigrate(
		&models.PredictionRecord{},
	)
	if err != nil {
		return fmt.Errorf("ошибка миграции: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("ошибка создания индексов: %w", err)
	}

	log.Println("✅ Миграции выполнены успешно")
	return nil
}

// createIndexes создает дополнительные индексы
func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_rul_predictions_device_created ON rul_predictions(device_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_rul_predictions_created_desc ON rul_predictions(created_at DESC)",

		// GIN индекс для JSONB поля фичей
		"CREATE INDEX IF NOT EXISTS idx_rul_predictions_features_gin ON rul_predictions USING GIN (features)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Не удалось создать индекс: %s, ошибка: %v", indexSQL, err)
		}
	}

	return nil
}
