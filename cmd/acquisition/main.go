package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rul-monitor/configs"
	"rul-monitor/internal/acquisition"
	"rul-monitor/internal/models"
	"rul-monitor/internal/mqtt_client"
	"rul-monitor/internal/sensors"
	"rul-monitor/internal/simulation"
)

func main() {
	cfg := configs.LoadConfig()

	mode := flag.String("mode", "simulation", "режим сбора: simulation или sensors")
	post := flag.Bool("post", false, "отправлять батчи на сервер предсказаний")
	publishMQTT := flag.Bool("mqtt", false, "публиковать сэмплы в MQTT")
	quick := flag.Bool("quick", false, "ускоренный 3-минутный жизненный цикл")
	seed := flag.Int64("seed", 0, "зерно симуляции (0 = недетерминированное)")
	serverURL := flag.String("server", cfg.Acquisition.ServerURL, "адрес сервера предсказаний")
	deviceID := flag.String("device", "RUL-DEVICE-001", "идентификатор устройства")
	batchSize := flag.Int("batch-size", cfg.Acquisition.BatchSize, "сэмплов в одном батче")
	interval := flag.Float64("interval", cfg.Acquisition.SamplingInterval, "секунд между сэмплами")
	adcPath := flag.String("adc", "/dev/ttyUSB0", "устройство АЦП для режима sensors")
	flag.Parse()

	log.Println(" === RUL DATA ACQUISITION ===")
	log.Printf("Режим: %s, батч: %d сэмплов, интервал: %.2fс", *mode, *batchSize, *interval)

	poster := acquisition.NewPoster(*serverURL, *deviceID)

	if *publishMQTT {
		mqttClient, err := mqtt_client.InitClient(cfg.MQTT)
		if err != nil {
			log.Fatalf("Не удалось инициализировать MQTT клиент: %v", err)
		}
		defer mqttClient.Disconnect(250)
		poster.EnableMQTT(mqttClient, "rul/sensors", cfg.MQTT.QoS)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Println("🛑 Остановка сбора данных...")
		cancel()
	}()

	var err error
	switch *mode {
	case "simulation":
		err = runSimulation(ctx, poster, *post, *quick, *seed, *batchSize, *interval)
	case "sensors":
		err = runSensors(ctx, poster, *post, *adcPath, *batchSize, *interval)
	default:
		log.Fatalf("Неизвестный режим: %s (ожидается simulation или sensors)", *mode)
	}

	if err != nil && err != context.Canceled {
		log.Fatalf("❌ Сбор данных завершился с ошибкой: %v", err)
	}
	log.Println("Сбор данных завершен")
}

// runSimulation прогоняет полный жизненный цикл деградации через симулятор
func runSimulation(ctx context.Context, poster *acquisition.Poster, post, quick bool, seed int64, batchSize int, interval float64) error {
	simCfg := simulation.DefaultConfig()
	if quick {
		simCfg = simulation.QuickTestConfig()
	}

	var sim *simulation.Simulator
	if seed != 0 {
		sim = simulation.NewSimulatorWithSeed(simCfg, seed)
	} else {
		sim = simulation.NewSimulator(simCfg)
	}

	log.Printf("🔄 Симуляция деградации: %d сэмплов от установки до отказа", sim.TotalSamples())

	accel := sensors.NewSimulatedAccelerometer()
	vib := sensors.NewSimulatedVibrationSensor()
	collector := acquisition.NewCollector(accel, vib, interval)

	pause := time.Duration(interval * float64(time.Second))
	batch := newEmptyBatch("simulation", batchSize)

	for {
		sample, ok := sim.NextSample()
		if !ok {
			// Жизненный цикл отработан, досылаем остаток
			if len(batch.Timestamps) > 0 {
				flushBatch(poster, post, batch)
			}
			log.Println("🏁 Симуляция завершена: оборудование достигло отказа")
			return nil
		}

		accel.UpdateData(sample)
		vib.UpdateData(sample)

		reading := collector.ReadSample()
		reading.PhaseInfo = sample.PhaseInfo
		poster.PublishSample(reading)

		appendToBatch(batch, reading)
		if len(batch.Timestamps) >= batchSize {
			flushBatch(poster, post, batch)
			batch = newEmptyBatch("simulation", batchSize)
		}

		if sample.PhaseInfo != nil && sample.SampleNumber%50 == 0 {
			log.Printf("📊 Фаза: %s (%.1f%%, деградация %.3f)",
				sample.PhaseInfo.Phase, sample.PhaseInfo.ProgressPercent, sample.PhaseInfo.DegradationFactor)
		}

		select {
		case <-time.After(pause):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// runSensors собирает данные с физических датчиков батчами
func runSensors(ctx context.Context, poster *acquisition.Poster, post bool, adcPath string, batchSize int, interval float64) error {
	reader, err := sensors.OpenSerialADC(adcPath)
	if err != nil {
		return fmt.Errorf("аналоговые входы недоступны: %w", err)
	}
	defer reader.Close()

	accel := sensors.NewHardwareAccelerometer(reader, 0, 1, 2)
	vib := sensors.NewHardwareVibrationSensor(reader, 3)
	collector := acquisition.NewCollector(accel, vib, interval)

	log.Println("🔄 Сбор данных с физических датчиков")

	for {
		batch, err := collector.CollectBatch(ctx, batchSize)
		if err != nil {
			return err
		}
		flushBatch(poster, post, batch)
	}
}

func newEmptyBatch(mode string, capacity int) *models.SensorBatch {
	return &models.SensorBatch{
		Mode: mode,
		AccelData: models.AccelBatch{
			X: make([]float64, 0, capacity),
			Y: make([]float64, 0, capacity),
			Z: make([]float64, 0, capacity),
		},
		VibData:    make([]float64, 0, capacity),
		Timestamps: make([]float64, 0, capacity),
	}
}

func appendToBatch(batch *models.SensorBatch, sample *models.SensorSample) {
	batch.AccelData.X = append(batch.AccelData.X, sample.Accelerometer.X)
	batch.AccelData.Y = append(batch.AccelData.Y, sample.Accelerometer.Y)
	batch.AccelData.Z = append(batch.AccelData.Z, sample.Accelerometer.Z)
	batch.VibData = append(batch.VibData, sample.Vibration.Voltage)
	batch.Timestamps = append(batch.Timestamps, sample.Timestamp)
}

// flushBatch заполняет метаданные и отправляет батч на сервер
func flushBatch(poster *acquisition.Poster, post bool, batch *models.SensorBatch) {
	n := len(batch.Timestamps)
	batch.BatchInfo = models.BatchInfo{
		SampleCount: n,
		StartTime:   batch.Timestamps[0],
		EndTime:     batch.Timestamps[n-1],
		Duration:    batch.Timestamps[n-1] - batch.Timestamps[0],
	}

	if !post {
		log.Printf("💾 Батч собран: %d сэмплов (отправка отключена)", n)
		return
	}

	response, err := poster.PostBatch(batch)
	if err != nil {
		log.Printf("❌ Ошибка отправки батча: %v", err)
		return
	}

	if prediction, ok := response["rul_prediction"]; ok && prediction != nil {
		log.Printf("🔮 Сервер ответил предсказанием: %v", prediction)
	} else {
		log.Printf("✅ Батч из %d сэмплов принят сервером", n)
	}
}
