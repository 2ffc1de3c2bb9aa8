package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"rul-monitor/internal/features"
	"rul-monitor/internal/models"
	"rul-monitor/internal/rul"
)

// PredictionService полный пайплайн предсказания RUL: батч сэмплов ->
// фичи по каналам -> вход модели -> скаляр -> корзина длительности.
// Сами операции чистые; единственное разделяемое состояние — ячейка
// последнего предсказания под RWMutex.
type PredictionService struct {
	predictor Predictor // nil = деградированный режим без модели
	formatter *rul.Formatter
	minBatch  int

	mu     sync.RWMutex
	latest *LatestPrediction
}

// LatestPrediction последнее успешное предсказание для дашборда.
// Публикуется только целиком собранная структура.
type LatestPrediction struct {
	Status            string                    `json:"status"`
	Message           string                    `json:"message,omitempty"`
	RULPrediction     *rul.Result               `json:"rul_prediction,omitempty"`
	HealthStatus      string                    `json:"health_status,omitempty"`
	FeatureExtraction *models.FeatureExtraction `json:"feature_extraction,omitempty"`
	SampleCount       int                       `json:"sample_count,omitempty"`
	Mode              string                    `json:"mode,omitempty"`
	Timestamp         float64                   `json:"timestamp,omitempty"`
	BatchInfo         *models.BatchInfo         `json:"batch_info,omitempty"`
}

// BatchResult результат обработки одного батча
type BatchResult struct {
	RULPrediction     *rul.Result
	HealthStatus      string
	FeatureExtraction *models.FeatureExtraction
	Skipped           bool   // предсказание пропущено, батч принят
	SkipReason        string // причина пропуска
	ModelMissing      bool   // пропуск из-за отсутствия модели
}

// NewPredictionService создает сервис предсказаний. predictor == nil
// означает штатный деградированный режим: батчи принимаются, фичи не
// считаются, предсказания отвечают ошибкой без повторов.
func NewPredictionService(predictor Predictor, formatter *rul.Formatter, minBatch int) *PredictionService {
	return &PredictionService{
		predictor: predictor,
		formatter: formatter,
		minBatch:  minBatch,
		latest: &LatestPrediction{
			Status:  "waiting",
			Message: "No predictions yet",
		},
	}
}

// ModelAvailable проверяет что модель загружена
func (ps *PredictionService) ModelAvailable() bool {
	return ps.predictor != nil
}

// MinBatchSamples минимум сэмплов для надежного предсказания
func (ps *PredictionService) MinBatchSamples() int {
	return ps.minBatch
}

// ProcessBatch прогоняет батч через пайплайн. Батч меньше порога или
// принятый без модели не ошибка: он подтверждается с причиной пропуска.
func (ps *PredictionService) ProcessBatch(batch *models.SensorBatch) (*BatchResult, error) {
	count := batch.BatchInfo.SampleCount

	if count < ps.minBatch {
		log.Printf("⏳ Недостаточно сэмплов для предсказания (есть %d, нужно >=%d)", count, ps.minBatch)
		return &BatchResult{
			Skipped:    true,
			SkipReason: fmt.Sprintf("need at least %d samples, got %d", ps.minBatch, count),
		}, nil
	}

	if ps.predictor == nil {
		log.Println("⚠️ Модель не загружена — батч принят без предсказания")
		return &BatchResult{
			Skipped:      true,
			SkipReason:   "model unavailable, batch acknowledged without prediction",
			ModelMissing: true,
		}, nil
	}

	// 8 фичей на каждый канал: X, Y, Z, вибрация + магнитуда
	extraction := ExtractBatchFeatures(batch)

	// Вход модели собирается из магнитуды акселерометра и вибродатчика
	accelMag := features.Extract8(features.Magnitude(batch.AccelData.X, batch.AccelData.Y, batch.AccelData.Z))
	vibFeats := features.Extract8(batch.VibData)
	modelInput := BuildModelFeatures(accelMag, vibFeats)

	raw, err := ps.predictor.Predict(modelInput)
	if err != nil {
		return nil, fmt.Errorf("предсказание RUL не удалось: %w", err)
	}

	result := ps.formatter.Format(raw)
	health := rul.HealthStatus(result.ValueHours)

	log.Printf("🔮 RUL предсказание: %s (%.1f часов)", result.Formatted, result.ValueHours)
	log.Printf("📊 Состояние оборудования: %s", health)

	batchInfo := batch.BatchInfo
	ps.publishLatest(&LatestPrediction{
		Status:            "success",
		RULPrediction:     &result,
		HealthStatus:      health,
		FeatureExtraction: extraction,
		SampleCount:       count,
		Mode:              batch.Mode,
		Timestamp:         float64(time.Now().UnixNano()) / 1e9,
		BatchInfo:         &batchInfo,
	})

	return &BatchResult{
		RULPrediction:     &result,
		HealthStatus:      health,
		FeatureExtraction: extraction,
	}, nil
}

// PredictFromChannels предсказание по сырым массивам каналов
// (минимальный вход: акселерометр одним рядом + вибрация)
func (ps *PredictionService) PredictFromChannels(accelData, vibData []float64) (*rul.Result, error) {
	if ps.predictor == nil {
		return nil, ErrModelUnavailable
	}

	accelFeats := features.Extract8(accelData)
	vibFeats := features.Extract8(vibData)
	return ps.predictFromVectors(accelFeats, vibFeats)
}

// PredictFromFeatures предсказание по заранее извлеченным фичам:
// плоский список из 16 значений (8 акселерометр, 8 вибрация)
func (ps *PredictionService) PredictFromFeatures(flat []float64) (*rul.Result, error) {
	if ps.predictor == nil {
		return nil, ErrModelUnavailable
	}
	if len(flat) != 16 {
		return nil, fmt.Errorf("ожидается 16 фичей (8 акселерометр + 8 вибрация), получено %d", len(flat))
	}

	return ps.predictFromVectors(vectorFromSlice(flat[:8]), vectorFromSlice(flat[8:]))
}

func (ps *PredictionService) predictFromVectors(accel, vib models.FeatureVector8) (*rul.Result, error) {
	raw, err := ps.predictor.Predict(BuildModelFeatures(accel, vib))
	if err != nil {
		return nil, fmt.Errorf("предсказание RUL не удалось: %w", err)
	}

	result := ps.formatter.Format(raw)
	return &result, nil
}

// Latest возвращает последнее опубликованное предсказание
func (ps *PredictionService) Latest() *LatestPrediction {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.latest
}

// publishLatest атомарно заменяет ячейку последнего предсказания
func (ps *PredictionService) publishLatest(latest *LatestPrediction) {
	ps.mu.Lock()
	ps.latest = latest
	ps.mu.Unlock()
}

// ExtractBatchFeatures вычисляет 8 канонических фичей для каждого канала
// батча: оси X/Y/Z, вибрация и евклидова магнитуда осей
func ExtractBatchFeatures(batch *models.SensorBatch) *models.FeatureExtraction {
	magnitude := features.Magnitude(batch.AccelData.X, batch.AccelData.Y, batch.AccelData.Z)

	return &models.FeatureExtraction{
		AccelXFeatures:         features.Extract8(batch.AccelData.X).Values(),
		AccelYFeatures:         features.Extract8(batch.AccelData.Y).Values(),
		AccelZFeatures:         features.Extract8(batch.AccelData.Z).Values(),
		VibrationFeatures:      features.Extract8(batch.VibData).Values(),
		AccelMagnitudeFeatures: features.Extract8(magnitude).Values(),
		FeatureNames:           models.FeatureNames,
		TotalFeaturesExtracted: 32, // 4 канала × 8 фичей
	}
}

func vectorFromSlice(v []float64) models.FeatureVector8 {
	return models.FeatureVector8{
		RMS:         v[0],
		Peak:        v[1],
		Mean:        v[2],
		StdDev:      v[3],
		Kurtosis:    v[4],
		Skewness:    v[5],
		CrestFactor: v[6],
		Entropy:     v[7],
	}
}
