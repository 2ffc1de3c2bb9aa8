// internal/acquisition/poster.go
package acquisition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"rul-monitor/internal/models"
)

// Poster отправляет собранные данные на сервер предсказаний по HTTP
// и, опционально, публикует каждый сэмпл в MQTT
type Poster struct {
	serverURL  string
	deviceID   string
	httpClient *http.Client

	mqttClient mqtt.Client // nil = публикация в MQTT отключена
	mqttTopic  string
	mqttQoS    byte
}

// NewPoster создает отправителя данных
func NewPoster(serverURL, deviceID string) *Poster {
	return &Poster{
		serverURL: serverURL,
		deviceID:  deviceID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// EnableMQTT включает публикацию сэмплов в MQTT топик устройства
func (p *Poster) EnableMQTT(client mqtt.Client, topicPrefix string, qos int) {
	p.mqttClient = client
	p.mqttTopic = fmt.Sprintf("%s/%s", topicPrefix, p.deviceID)
	p.mqttQoS = byte(qos)
	log.Printf("✅ MQTT публикация включена: топик %s", p.mqttTopic)
}

// PostBatch отправляет батч на сервер и возвращает тело ответа
func (p *Poster) PostBatch(batch *models.SensorBatch) (map[string]interface{}, error) {
	batch.DeviceID = p.deviceID

	body, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации батча: %w", err)
	}

	url := p.serverURL + "/api/v1/data"
	resp, err := p.httpClient.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("ошибка отправки батча: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("сервер вернул статус %d: %s", resp.StatusCode, string(responseBody))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(responseBody, &result); err != nil {
		return nil, fmt.Errorf("ошибка десериализации ответа: %w", err)
	}

	return result, nil
}

// PublishSample публикует одиночный сэмпл в MQTT (если включено)
func (p *Poster) PublishSample(sample *models.SensorSample) {
	if p.mqttClient == nil {
		return
	}

	payload, err := json.Marshal(sample)
	if err != nil {
		log.Printf("❌ Ошибка сериализации сэмпла: %v", err)
		return
	}

	token := p.mqttClient.Publish(p.mqttTopic, p.mqttQoS, false, payload)
	if !token.WaitTimeout(2 * time.Second) {
		log.Printf("⚠️ Таймаут публикации сэмпла в MQTT")
		return
	}
	if token.Error() != nil {
		log.Printf("❌ Ошибка публикации в MQTT: %v", token.Error())
	}
}
