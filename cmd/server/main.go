package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rul-monitor/configs"
	"rul-monitor/internal/database"
	"rul-monitor/internal/handlers"
	"rul-monitor/internal/mqtt_client"
	"rul-monitor/internal/rul"
	"rul-monitor/internal/services"
)

func main() {
	log.Println(" === RUL MONITOR v1.0 (Equipment Health Prediction) ===")

	// 1. Загрузка конфигурации
	cfg := configs.LoadConfig()
	log.Printf("Конфигурация загружена: DB=%s:%s, MQTT=%s, Model=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.MQTT.Broker, cfg.Model.ServiceURL)

	// 2. Инициализация базы данных. Без БД сервис продолжает работать:
	// предсказания не сохраняются, история недоступна.
	db, err := database.InitDatabase(cfg)
	if err != nil {
		log.Printf("⚠️ Ошибка инициализации БД: %v", err)
		log.Println("Продолжаем работу без сохранения предсказаний")
	} else {
		defer database.CloseDatabase()

		if err := database.RunMigrations(db); err != nil {
			log.Fatalf("Ошибка миграций: %v", err)
		}
	}

	// 3. Подключение к ML сервису. Недоступная модель — штатный
	// деградированный режим: данные принимаются, предсказания отвечают
	// ошибкой, повторных попыток подключения нет.
	var predictor services.Predictor
	modelClient := services.NewModelClient(cfg.Model.ServiceURL, time.Duration(cfg.Model.TimeoutSec)*time.Second)
	if err := modelClient.Ping(); err != nil {
		log.Printf("⚠️ ML сервис недоступен: %v", err)
		log.Println("Сервис запускается в деградированном режиме без предсказаний")
	} else {
		predictor = modelClient
		log.Println("✅ ML сервис доступен")
	}

	// 4. Создание основных компонентов
	formatter := rul.NewFormatter(cfg.Model.MinutesPerUnit)
	prediction := services.NewPredictionService(predictor, formatter, cfg.Model.MinBatchSamples)
	windows := handlers.NewWindowBuffer(db, prediction, cfg.Acquisition.BatchSize)

	// 5. Инициализация MQTT. Брокер опционален: без него остается
	// только HTTP путь приема данных.
	var mqttProcessor *handlers.MQTTProcessor
	mqttClient, err := mqtt_client.InitClient(cfg.MQTT)
	if err != nil {
		log.Printf("⚠️ Ошибка MQTT: %v", err)
		log.Println("Продолжаем работу без MQTT потока")
	} else {
		defer mqttClient.Disconnect(250)

		mqttProcessor = handlers.NewMQTTProcessor(mqttClient, windows, "rul/sensors/+")
		if err := mqttProcessor.Start(); err != nil {
			log.Fatalf("Ошибка подписки MQTT: %v", err)
		}
	}

	// 6. Запуск REST API сервера
	restAPI := handlers.NewRESTAPIServer(prediction, windows)
	router := restAPI.SetupRoutes()

	go func() {
		log.Printf("REST API Server запущен на :%s", cfg.App.Port)
		if err := http.ListenAndServe(":"+cfg.App.Port, router); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Ошибка HTTP сервера: %v", err)
		}
	}()

	log.Println("Сервис запущен → Ctrl+C для остановки")
	log.Println("Пайплайн предсказаний:")
	log.Println("HTTP/MQTT → Window Buffer → Feature Extraction → ML Model → RUL")

	// 7. Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Graceful shutdown...")

	// Остановка компонентов в обратном порядке
	if mqttProcessor != nil {
		mqttProcessor.Stop()
	}
	windows.Stop()

	log.Println("Сервис полностью остановлен")
}
