// internal/acquisition/collector.go
package acquisition

import (
	"context"
	"log"
	"time"

	"rul-monitor/internal/models"
	"rul-monitor/internal/sensors"
)

// Collector опрашивает датчики с заданным темпом и собирает батчи.
// Сбой чтения не роняет цикл: используется последнее известное
// значение, до первого успешного чтения — нули.
type Collector struct {
	accel    sensors.Accelerometer
	vib      sensors.VibrationSensor
	interval time.Duration

	lastAccel models.AccelReading
	lastVib   models.VibrationReading
	haveAccel bool
	haveVib   bool

	sampleNum int
	startTime time.Time
}

// NewCollector создает сборщик данных с датчиков
func NewCollector(accel sensors.Accelerometer, vib sensors.VibrationSensor, samplingInterval float64) *Collector {
	return &Collector{
		accel:    accel,
		vib:      vib,
		interval: time.Duration(samplingInterval * float64(time.Second)),
		lastVib:  models.VibrationReading{Level: "Low/No Vibration"},
	}
}

// ReadSample читает один сэмпл со всех датчиков
func (c *Collector) ReadSample() *models.SensorSample {
	if c.sampleNum == 0 {
		c.startTime = time.Now()
	}

	x, y, z, err := c.accel.GForce()
	if err != nil {
		log.Printf("⚠️ Ошибка чтения акселерометра: %v", err)
	} else {
		c.lastAccel = models.AccelReading{X: x, Y: y, Z: z}
		c.haveAccel = true
	}

	voltage, err := c.vib.RawVoltage()
	if err != nil {
		log.Printf("⚠️ Ошибка чтения вибродатчика: %v", err)
	} else {
		level, lerr := c.vib.VibrationLevel()
		if lerr != nil {
			level = c.lastVib.Level
		}
		c.lastVib = models.VibrationReading{Voltage: voltage, Level: level}
		c.haveVib = true
	}

	sample := &models.SensorSample{
		Timestamp:     float64(time.Now().UnixNano()) / 1e9,
		SampleNumber:  c.sampleNum,
		Accelerometer: c.lastAccel,
		Vibration:     c.lastVib,
	}
	c.sampleNum++

	return sample
}

// CollectBatch собирает batchSize сэмплов с равномерным темпом.
// Сон между итерациями компенсирует время, потраченное на чтение.
func (c *Collector) CollectBatch(ctx context.Context, batchSize int) (*models.SensorBatch, error) {
	batch := &models.SensorBatch{
		Mode: "sensors",
		AccelData: models.AccelBatch{
			X: make([]float64, 0, batchSize),
			Y: make([]float64, 0, batchSize),
			Z: make([]float64, 0, batchSize),
		},
		VibData:    make([]float64, 0, batchSize),
		Timestamps: make([]float64, 0, batchSize),
	}

	for i := 0; i < batchSize; i++ {
		iterStart := time.Now()

		sample := c.ReadSample()
		batch.AccelData.X = append(batch.AccelData.X, sample.Accelerometer.X)
		batch.AccelData.Y = append(batch.AccelData.Y, sample.Accelerometer.Y)
		batch.AccelData.Z = append(batch.AccelData.Z, sample.Accelerometer.Z)
		batch.VibData = append(batch.VibData, sample.Vibration.Voltage)
		batch.Timestamps = append(batch.Timestamps, sample.Timestamp)

		if i < batchSize-1 {
			sleep := c.interval - time.Since(iterStart)
			if sleep > 0 {
				select {
				case <-time.After(sleep):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
		}
	}

	n := len(batch.Timestamps)
	batch.BatchInfo = models.BatchInfo{
		SampleCount: n,
		StartTime:   batch.Timestamps[0],
		EndTime:     batch.Timestamps[n-1],
		Duration:    batch.Timestamps[n-1] - batch.Timestamps[0],
	}

	return batch, nil
}

// SampleCount сколько сэмплов прочитано с момента старта
func (c *Collector) SampleCount() int {
	return c.sampleNum
}
