package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Ошибки взаимодействия с моделью
var (
	// ErrModelUnavailable модель не загрузилась на старте: каждый
	// последующий запрос предсказания завершается ошибкой без повторов
	ErrModelUnavailable = errors.New("модель недоступна")
	// ErrMissingFeature схема модели ссылается на фичу, которой нет
	// в вычисленном векторе; фатально для одного запроса
	ErrMissingFeature = errors.New("отсутствует фича для модели")
)

// Predictor внешняя регрессионная модель: непрозрачный
// predict(вектор фичей) -> скаляр
type Predictor interface {
	Predict(features map[string]float64) (float64, error)
}

// ModelClient HTTP клиент внешнего ML сервиса (модель + скейлер)
type ModelClient struct {
	serviceURL string
	httpClient *http.Client
}

// NewModelClient создает клиента внешнего ML сервиса
func NewModelClient(serviceURL string, timeout time.Duration) *ModelClient {
	return &ModelClient{
		serviceURL: serviceURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// inferRequest запрос к ML сервису
type inferRequest struct {
	Features map[string]float64 `json:"features"`
}

// inferResponse ответ ML сервиса
type inferResponse struct {
	OK         bool     `json:"ok"`
	Prediction float64  `json:"prediction"`
	Missing    []string `json:"missing,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Predict отправляет вектор фичей модели и возвращает сырой скаляр
// предсказания в абстрактных единицах времени
func (c *ModelClient) Predict(features map[string]float64) (float64, error) {
	requestBody, err := json.Marshal(inferRequest{Features: features})
	if err != nil {
		return 0, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	url := fmt.Sprintf("%s/infer", c.serviceURL)
	httpReq, err := http.NewRequest("POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return 0, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("ML сервис вернул ошибку %d: %s", resp.StatusCode, string(responseBody))
	}

	var inferResp inferResponse
	if err := json.Unmarshal(responseBody, &inferResp); err != nil {
		return 0, fmt.Errorf("ошибка десериализации ответа: %w", err)
	}

	if len(inferResp.Missing) > 0 {
		return 0, fmt.Errorf("%w: %v", ErrMissingFeature, inferResp.Missing)
	}
	if !inferResp.OK {
		return 0, fmt.Errorf("предсказание не выполнено: %s", inferResp.Error)
	}

	return inferResp.Prediction, nil
}

// Ping проверяет доступность ML сервиса на старте
func (c *ModelClient) Ping() error {
	resp, err := c.httpClient.Get(c.serviceURL + "/health")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: статус %d", ErrModelUnavailable, resp.StatusCode)
	}
	return nil
}
