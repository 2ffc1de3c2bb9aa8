package handlers

import (
	"encoding/json"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"rul-monitor/internal/database"
	"rul-monitor/internal/features"
	"rul-monitor/internal/models"
	"rul-monitor/internal/rul"
	"rul-monitor/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title RUL Monitor API
// @version 1.0
// @description API для системы мониторинга остаточного ресурса оборудования (RUL)
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:5000
// @BasePath /api/v1

// @tag.name data
// @tag.description Прием данных датчиков

// @tag.name predictions
// @tag.description Предсказания остаточного ресурса

// @tag.name monitoring
// @tag.description Мониторинг состояния сервиса

// RESTAPIServer обрабатывает REST API запросы
type RESTAPIServer struct {
	prediction *services.PredictionService
	windows    *WindowBuffer
}

// SampleRequest одиночный сэмпл датчиков
// @Description Один сэмпл со всех каналов датчиков
type SampleRequest struct {
	Timestamp     *float64                 `json:"timestamp" binding:"required" example:"1724400000.123"` // Unix время сэмпла
	Accelerometer *models.AccelReading     `json:"accelerometer" binding:"required"`                      // Показания акселерометра в g
	Vibration     *models.VibrationReading `json:"vibration" binding:"required"`                          // Показание вибродатчика
	SampleNumber  int                      `json:"sample_number,omitempty" example:"42"`                  // Порядковый номер сэмпла
	DeviceID      string                   `json:"device_id,omitempty" example:"PUMP-001"`                // Идентификатор устройства
}

// PredictRequest запрос предсказания по сырым каналам или готовым фичам
// @Description Либо массивы accel_data и vib_data, либо 16 готовых фичей
type PredictRequest struct {
	AccelData []float64 `json:"accel_data,omitempty"` // Сырые данные акселерометра (один ряд)
	VibData   []float64 `json:"vib_data,omitempty"`   // Сырые данные вибродатчика
	Features  []float64 `json:"features,omitempty"`   // Готовые фичи: 8 акселерометр + 8 вибрация
}

// AckResponse подтверждение приема сэмпла
// @Description Подтверждение приема одиночного сэмпла
type AckResponse struct {
	Status   string `json:"status" example:"received"`    // Статус приема
	DeviceID string `json:"device_id" example:"PUMP-001"` // Устройство
}

// BatchResponse результат обработки батча
// @Description Подтверждение приема батча с результатом предсказания
type BatchResponse struct {
	Status            string                    `json:"status" example:"processed"`     // Статус обработки
	SamplesReceived   int                       `json:"samples_received" example:"100"` // Принято сэмплов
	RULPrediction     interface{}               `json:"rul_prediction,omitempty"`       // Предсказание RUL
	HealthStatus      string                    `json:"health_status,omitempty"`        // Состояние оборудования
	FeatureExtraction *models.FeatureExtraction `json:"feature_extraction,omitempty"`   // Извлеченные фичи
	SkipReason        string                    `json:"skip_reason,omitempty"`          // Причина пропуска предсказания
}

// SimulateResponse результат тестового предсказания
// @Description Предсказание на синтетических данных для проверки пайплайна
type SimulateResponse struct {
	Status        string      `json:"status" example:"ok"`        // Статус
	SampleCount   int         `json:"sample_count" example:"100"` // Размер синтетического ряда
	RULPrediction interface{} `json:"rul_prediction"`             // Предсказание RUL
	HealthStatus  string      `json:"health_status"`              // Состояние оборудования
}

// HealthResponse состояние сервиса
// @Description Информация о состоянии и работоспособности сервиса
type HealthResponse struct {
	Status         string    `json:"status" example:"healthy"`                 // Статус сервиса
	Service        string    `json:"service" example:"RUL Monitor"`            // Название сервиса
	Timestamp      time.Time `json:"timestamp" example:"2026-08-23T10:00:00Z"` // Время проверки
	ModelAvailable bool      `json:"model_available" example:"true"`           // Доступность ML модели
	Database       string    `json:"database" example:"healthy"`               // Состояние БД
	ActiveDevices  int       `json:"active_devices" example:"2"`               // Устройств с открытыми окнами
}

// ErrorResponse стандартный ответ об ошибке
// @Description Стандартная структура ответа об ошибке
type ErrorResponse struct {
	Error   string `json:"error" example:"Неверный формат данных"`     // Описание ошибки
	Details string `json:"details,omitempty" example:"field required"` // Дополнительные детали ошибки
}

// NewRESTAPIServer создает новый REST API сервер
func NewRESTAPIServer(prediction *services.PredictionService, windows *WindowBuffer) *RESTAPIServer {
	return &RESTAPIServer{
		prediction: prediction,
		windows:    windows,
	}
}

// SetupRoutes настраивает маршруты REST API
func (api *RESTAPIServer) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Middleware
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:80", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI. Спецификация появляется после генерации docs пакета
	// (swag init), до тех пор маршрут отдает пустой документ.
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	// API группа
	api_group := r.Group("/api/v1")

	// === ПРИЕМ ДАННЫХ ===
	api_group.POST("/data", api.ReceiveData)

	// === ПРЕДСКАЗАНИЯ ===
	api_group.POST("/predict", api.Predict)
	api_group.POST("/features", api.AnalyzeFeatures)
	api_group.GET("/simulate", api.SimulatePrediction)
	api_group.GET("/latest", api.LatestPrediction)
	api_group.GET("/predictions", api.RecentPredictions)

	// === МОНИТОРИНГ СЕРВИСА ===
	monitoring := api_group.Group("/monitoring")
	{
		monitoring.GET("/health", api.HealthCheck)
	}

	return r
}

// ReceiveData принимает данные датчиков: одиночный сэмпл или целый батч.
// Тип полезной нагрузки определяется по наличию поля batch_info.
// @Summary Прием данных датчиков
// @Description Принимает одиночный сэмпл (буферизуется в окно устройства) или батч (сразу уходит в предсказание)
// @Tags data
// @Accept json
// @Produce json
// @Param request body SampleRequest true "Сэмпл или батч данных"
// @Success 200 {object} AckResponse "Сэмпл принят"
// @Success 200 {object} BatchResponse "Батч обработан"
// @Failure 400 {object} ErrorResponse "Неверный формат данных"
// @Failure 503 {object} ErrorResponse "Сбой обращения к модели"
// @Router /data [post]
func (api *RESTAPIServer) ReceiveData(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Не удалось прочитать тело запроса",
			Details: err.Error(),
		})
		return
	}

	var probe struct {
		BatchInfo *models.BatchInfo `json:"batch_info"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Неверный JSON",
			Details: err.Error(),
		})
		return
	}

	if probe.BatchInfo != nil {
		api.receiveBatch(c, body)
		return
	}
	api.receiveSample(c, body)
}

// receiveSample буферизует одиночный сэмпл в окно устройства
func (api *RESTAPIServer) receiveSample(c *gin.Context, body []byte) {
	var req SampleRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Неверный формат сэмпла",
			Details: err.Error(),
		})
		return
	}
	if req.Timestamp == nil || req.Accelerometer == nil || req.Vibration == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Обязательные поля: timestamp, accelerometer, vibration",
		})
		return
	}

	deviceID := req.DeviceID
	if deviceID == "" {
		deviceID = "default"
	}

	sample := &models.SensorSample{
		Timestamp:     *req.Timestamp,
		SampleNumber:  req.SampleNumber,
		Accelerometer: *req.Accelerometer,
		Vibration:     *req.Vibration,
	}
	api.windows.AddSample(deviceID, sample)

	c.JSON(http.StatusOK, AckResponse{
		Status:   "received",
		DeviceID: deviceID,
	})
}

// receiveBatch прогоняет батч через пайплайн предсказания
func (api *RESTAPIServer) receiveBatch(c *gin.Context, body []byte) {
	var batch models.SensorBatch
	if err := json.Unmarshal(body, &batch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Неверный формат батча",
			Details: err.Error(),
		})
		return
	}

	if batch.BatchInfo.SampleCount == 0 {
		batch.BatchInfo.SampleCount = len(batch.VibData)
	}

	result, err := api.prediction.ProcessBatch(&batch)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "Предсказание не выполнено",
			Details: err.Error(),
		})
		return
	}

	if result.Skipped {
		status := "buffered"
		if result.ModelMissing {
			status = "accepted"
		}
		c.JSON(http.StatusOK, BatchResponse{
			Status:          status,
			SamplesReceived: batch.BatchInfo.SampleCount,
			SkipReason:      result.SkipReason,
		})
		return
	}

	go api.windows.SavePrediction(&batch, result)

	c.JSON(http.StatusOK, BatchResponse{
		Status:            "processed",
		SamplesReceived:   batch.BatchInfo.SampleCount,
		RULPrediction:     result.RULPrediction,
		HealthStatus:      result.HealthStatus,
		FeatureExtraction: result.FeatureExtraction,
	})
}

// Predict выполняет предсказание по данным из тела запроса
// @Summary Предсказание RUL по переданным данным
// @Description Принимает сырые каналы (accel_data + vib_data) или 16 готовых фичей
// @Tags predictions
// @Accept json
// @Produce json
// @Param request body PredictRequest true "Данные для предсказания"
// @Success 200 {object} SimulateResponse "Результат предсказания"
// @Failure 400 {object} ErrorResponse "Неверный формат данных"
// @Failure 503 {object} ErrorResponse "Модель недоступна"
// @Router /predict [post]
func (api *RESTAPIServer) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Неверный формат данных",
			Details: err.Error(),
		})
		return
	}

	var prediction *rul.Result
	var sampleCount int
	var err error

	switch {
	case len(req.Features) > 0:
		prediction, err = api.prediction.PredictFromFeatures(req.Features)
		sampleCount = len(req.Features)

	case len(req.AccelData) > 0 && len(req.VibData) > 0:
		prediction, err = api.prediction.PredictFromChannels(req.AccelData, req.VibData)
		sampleCount = len(req.VibData)

	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Требуются либо accel_data и vib_data, либо features (16 значений)",
		})
		return
	}

	if err != nil {
		api.predictionError(c, err)
		return
	}

	c.JSON(http.StatusOK, SimulateResponse{
		Status:        "ok",
		SampleCount:   sampleCount,
		RULPrediction: prediction,
		HealthStatus:  rul.HealthStatus(prediction.ValueHours),
	})
}

// AnalyzeFeatures диагностика батча без предсказания: статистические фичи
// по каналам плюс частотные характеристики вибрации и магнитуды
// @Summary Диагностический разбор батча
// @Description Извлекает статистические и спектральные фичи батча без обращения к модели
// @Tags data
// @Accept json
// @Produce json
// @Param request body models.SensorBatch true "Батч данных"
// @Success 200 {object} map[string]interface{} "Фичи батча"
// @Failure 400 {object} ErrorResponse "Неверный формат данных"
// @Router /features [post]
func (api *RESTAPIServer) AnalyzeFeatures(c *gin.Context) {
	var batch models.SensorBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Неверный формат батча",
			Details: err.Error(),
		})
		return
	}
	if len(batch.VibData) == 0 || len(batch.AccelData.X) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Батч не содержит данных каналов",
		})
		return
	}

	// Частота дискретизации восстанавливается из временных меток
	samplingRate := 1.0
	n := len(batch.Timestamps)
	if n > 1 {
		duration := batch.Timestamps[n-1] - batch.Timestamps[0]
		if duration > 0 {
			samplingRate = float64(n-1) / duration
		}
	}

	magnitude := features.Magnitude(batch.AccelData.X, batch.AccelData.Y, batch.AccelData.Z)

	c.JSON(http.StatusOK, gin.H{
		"feature_extraction": services.ExtractBatchFeatures(&batch),
		"sampling_rate":      samplingRate,
		"vibration_spectral": features.ExtractSpectral(batch.VibData, samplingRate),
		"magnitude_spectral": features.ExtractSpectral(magnitude, samplingRate),
	})
}

// SimulatePrediction тестовое предсказание на синтетических данных
// @Summary Тестовое предсказание на синтетике
// @Description Генерирует детерминированный синтетический ряд и прогоняет его через полный пайплайн
// @Tags predictions
// @Produce json
// @Success 200 {object} SimulateResponse "Результат предсказания"
// @Failure 503 {object} ErrorResponse "Модель недоступна"
// @Router /simulate [get]
func (api *RESTAPIServer) SimulatePrediction(c *gin.Context) {
	const n = 100
	rng := rand.New(rand.NewSource(42))

	accelData := make([]float64, n)
	vibData := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		accelData[i] = rng.NormFloat64() + 0.1*math.Sin(10*t)
		vibData[i] = 0.5*rng.NormFloat64() + 0.05*math.Cos(15*t)
	}

	prediction, err := api.prediction.PredictFromChannels(accelData, vibData)
	if err != nil {
		api.predictionError(c, err)
		return
	}

	c.JSON(http.StatusOK, SimulateResponse{
		Status:        "ok",
		SampleCount:   n,
		RULPrediction: prediction,
		HealthStatus:  rul.HealthStatus(prediction.ValueHours),
	})
}

// LatestPrediction возвращает последнее успешное предсказание
// @Summary Последнее предсказание
// @Description Возвращает последнее опубликованное предсказание RUL для дашборда
// @Tags predictions
// @Produce json
// @Success 200 {object} services.LatestPrediction "Последнее предсказание"
// @Router /latest [get]
func (api *RESTAPIServer) LatestPrediction(c *gin.Context) {
	c.JSON(http.StatusOK, api.prediction.Latest())
}

// RecentPredictions возвращает последние сохраненные предсказания из БД
// @Summary История предсказаний
// @Description Возвращает последние предсказания из БД, отсортированные по времени
// @Tags predictions
// @Produce json
// @Param limit query int false "Максимум записей" default(20)
// @Param device_id query string false "Фильтр по устройству"
// @Success 200 {object} map[string]interface{} "Список предсказаний"
// @Failure 503 {object} ErrorResponse "База данных недоступна"
// @Router /predictions [get]
func (api *RESTAPIServer) RecentPredictions(c *gin.Context) {
	db := database.GetDB()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "База данных недоступна",
		})
		return
	}

	limit := 20
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}

	query := db.Order("created_at DESC").Limit(limit)
	if deviceID := c.Query("device_id"); deviceID != "" {
		query = query.Where("device_id = ?", deviceID)
	}

	var records []models.PredictionRecord
	if err := query.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Ошибка чтения предсказаний",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"predictions": records,
		"count":       len(records),
	})
}

// HealthCheck проверка здоровья сервиса
// @Summary Проверка состояния сервиса
// @Description Возвращает информацию о текущем состоянии сервиса, модели и БД
// @Tags monitoring
// @Produce json
// @Success 200 {object} HealthResponse "Состояние сервиса"
// @Router /monitoring/health [get]
func (api *RESTAPIServer) HealthCheck(c *gin.Context) {
	dbStatus := "healthy"
	if database.GetDB() == nil {
		dbStatus = "unavailable"
	} else if err := database.HealthCheck(); err != nil {
		dbStatus = "unhealthy"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:         "healthy",
		Service:        "RUL Monitor",
		Timestamp:      time.Now().UTC(),
		ModelAvailable: api.prediction.ModelAvailable(),
		Database:       dbStatus,
		ActiveDevices:  len(api.windows.Devices()),
	})
}

// predictionError сводит ошибки предсказания к HTTP статусам
func (api *RESTAPIServer) predictionError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if !api.prediction.ModelAvailable() {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, ErrorResponse{
		Error:   "Предсказание не выполнено",
		Details: err.Error(),
	})
}
