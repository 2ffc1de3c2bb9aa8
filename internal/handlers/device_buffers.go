// internal/handlers/device_buffers.go
package handlers

import (
	"context"
	"log"
	"sync"
	"time"

	"rul-monitor/internal/models"
	"rul-monitor/internal/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WindowBuffer накапливает потоковые сэмплы по устройствам и отдает
// заполненные окна в пайплайн предсказания
type WindowBuffer struct {
	db         *gorm.DB
	prediction *services.PredictionService
	windowSize int

	deviceWindows map[string]*DeviceWindow
	mu            sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// DeviceWindow окно сэмплов одного устройства
type DeviceWindow struct {
	DeviceID   string
	AccelX     []float64
	AccelY     []float64
	AccelZ     []float64
	Vibration  []float64
	Timestamps []float64
	StartedAt  time.Time
	mu         sync.Mutex
}

// NewWindowBuffer создает буфер окон
func NewWindowBuffer(db *gorm.DB, prediction *services.PredictionService, windowSize int) *WindowBuffer {
	ctx, cancel := context.WithCancel(context.Background())

	buffer := &WindowBuffer{
		db:            db,
		prediction:    prediction,
		windowSize:    windowSize,
		deviceWindows: make(map[string]*DeviceWindow),
		ctx:           ctx,
		cancel:        cancel,
	}

	// Сброс залежавшихся неполных окон
	buffer.wg.Add(1)
	go buffer.staleFlushWorker()

	log.Println("Window Buffer инициализирован")
	return buffer
}

// AddSample добавляет сэмпл в окно устройства. Заполненное окно уходит
// в предсказание асинхронно.
func (wb *WindowBuffer) AddSample(deviceID string, sample *models.SensorSample) {
	wb.mu.RLock()
	window, exists := wb.deviceWindows[deviceID]
	wb.mu.RUnlock()

	if !exists {
		wb.mu.Lock()
		if window, exists = wb.deviceWindows[deviceID]; !exists {
			window = &DeviceWindow{
				DeviceID:   deviceID,
				AccelX:     make([]float64, 0, wb.windowSize),
				AccelY:     make([]float64, 0, wb.windowSize),
				AccelZ:     make([]float64, 0, wb.windowSize),
				Vibration:  make([]float64, 0, wb.windowSize),
				Timestamps: make([]float64, 0, wb.windowSize),
				StartedAt:  time.Now(),
			}
			wb.deviceWindows[deviceID] = window
		}
		wb.mu.Unlock()
	}

	window.mu.Lock()
	window.AccelX = append(window.AccelX, sample.Accelerometer.X)
	window.AccelY = append(window.AccelY, sample.Accelerometer.Y)
	window.AccelZ = append(window.AccelZ, sample.Accelerometer.Z)
	window.Vibration = append(window.Vibration, sample.Vibration.Voltage)
	window.Timestamps = append(window.Timestamps, sample.Timestamp)
	full := len(window.Timestamps) >= wb.windowSize
	window.mu.Unlock()

	if full {
		go wb.flushWindow(deviceID)
	}
}

// flushWindow забирает накопленное окно и прогоняет через предсказание
func (wb *WindowBuffer) flushWindow(deviceID string) {
	wb.mu.RLock()
	window, exists := wb.deviceWindows[deviceID]
	wb.mu.RUnlock()

	if !exists {
		return
	}

	window.mu.Lock()
	if len(window.Timestamps) == 0 {
		window.mu.Unlock()
		return
	}

	batch := &models.SensorBatch{
		Mode:     "mqtt-stream",
		DeviceID: deviceID,
		BatchInfo: models.BatchInfo{
			SampleCount: len(window.Timestamps),
			StartTime:   window.Timestamps[0],
			EndTime:     window.Timestamps[len(window.Timestamps)-1],
			Duration:    window.Timestamps[len(window.Timestamps)-1] - window.Timestamps[0],
		},
		AccelData: models.AccelBatch{
			X: append([]float64(nil), window.AccelX...),
			Y: append([]float64(nil), window.AccelY...),
			Z: append([]float64(nil), window.AccelZ...),
		},
		VibData:    append([]float64(nil), window.Vibration...),
		Timestamps: append([]float64(nil), window.Timestamps...),
	}

	window.AccelX = window.AccelX[:0]
	window.AccelY = window.AccelY[:0]
	window.AccelZ = window.AccelZ[:0]
	window.Vibration = window.Vibration[:0]
	window.Timestamps = window.Timestamps[:0]
	window.StartedAt = time.Now()
	window.mu.Unlock()

	result, err := wb.prediction.ProcessBatch(batch)
	if err != nil {
		log.Printf("❌ Ошибка предсказания для устройства %s: %v", deviceID, err)
		return
	}
	if result.Skipped {
		return
	}

	wb.persistPrediction(batch, result)
}

// persistPrediction сохраняет успешное предсказание в БД
func (wb *WindowBuffer) persistPrediction(batch *models.SensorBatch, result *services.BatchResult) {
	if wb.db == nil || result.RULPrediction == nil {
		return
	}

	record := models.PredictionRecord{
		ID:           uuid.New(),
		DeviceID:     batch.DeviceID,
		Mode:         batch.Mode,
		SampleCount:  batch.BatchInfo.SampleCount,
		BatchStart:   batch.BatchInfo.StartTime,
		BatchEnd:     batch.BatchInfo.EndTime,
		RULHours:     result.RULPrediction.ValueHours,
		RULFormatted: result.RULPrediction.Formatted,
		RULUnit:      result.RULPrediction.Unit,
		HealthStatus: result.HealthStatus,
		Features:     *result.FeatureExtraction,
		CreatedAt:    time.Now().UTC(),
	}

	if err := wb.db.Create(&record).Error; err != nil {
		log.Printf("❌ Ошибка записи предсказания в БД: %v", err)
	} else {
		log.Printf("💾 Предсказание сохранено: устройство %s, RUL %s",
			batch.DeviceID, result.RULPrediction.Formatted)
	}
}

// staleFlushWorker сбрасывает окна, не пополнявшиеся долгое время
func (wb *WindowBuffer) staleFlushWorker() {
	defer wb.wg.Done()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			wb.flushStaleWindows()
		case <-wb.ctx.Done():
			log.Println("🛑 Stale flush worker остановлен")
			return
		}
	}
}

// flushStaleWindows находит окна старше минуты и отправляет их в пайплайн:
// неполное окно либо даст предсказание, либо попадет под политику пропуска
func (wb *WindowBuffer) flushStaleWindows() {
	wb.mu.RLock()
	var stale []string
	for deviceID, window := range wb.deviceWindows {
		window.mu.Lock()
		if len(window.Timestamps) > 0 && time.Since(window.StartedAt) > time.Minute {
			stale = append(stale, deviceID)
		}
		window.mu.Unlock()
	}
	wb.mu.RUnlock()

	for _, deviceID := range stale {
		go wb.flushWindow(deviceID)
	}
}

// Devices возвращает устройства с открытыми окнами
func (wb *WindowBuffer) Devices() []string {
	wb.mu.RLock()
	defer wb.mu.RUnlock()

	devices := make([]string, 0, len(wb.deviceWindows))
	for deviceID := range wb.deviceWindows {
		devices = append(devices, deviceID)
	}
	return devices
}

// Stop останавливает буфер
func (wb *WindowBuffer) Stop() {
	log.Println("Остановка Window Buffer...")
	wb.cancel()
	wb.wg.Wait()
	log.Println("Window Buffer остановлен")
}

// SavePrediction сохраняет предсказание, полученное по HTTP пути
func (wb *WindowBuffer) SavePrediction(batch *models.SensorBatch, result *services.BatchResult) {
	wb.persistPrediction(batch, result)
}
