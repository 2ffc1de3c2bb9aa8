// internal/handlers/mqtt_processor.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"rul-monitor/internal/models"
)

// deviceSample сэмпл с привязкой к устройству для канала обработки
type deviceSample struct {
	DeviceID string
	Sample   *models.SensorSample
}

// MQTTProcessor принимает потоковые сэмплы датчиков из MQTT и
// раскладывает их по окнам устройств
type MQTTProcessor struct {
	client  mqtt.Client
	windows *WindowBuffer
	topic   string

	dataChannel chan deviceSample
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewMQTTProcessor создает процессор MQTT потока
func NewMQTTProcessor(client mqtt.Client, windows *WindowBuffer, topic string) *MQTTProcessor {
	ctx, cancel := context.WithCancel(context.Background())

	processor := &MQTTProcessor{
		client:      client,
		windows:     windows,
		topic:       topic,
		dataChannel: make(chan deviceSample, 1000),
		ctx:         ctx,
		cancel:      cancel,
	}

	processor.wg.Add(1)
	go processor.dataWorker()

	return processor
}

// Start подписывается на топик сэмплов датчиков
func (p *MQTTProcessor) Start() error {
	token := p.client.Subscribe(p.topic, 1, p.handleMessage)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}

	log.Printf("✅ Подписка на MQTT топик: %s", p.topic)
	return nil
}

// handleMessage разбирает входящее сообщение и ставит в очередь обработки.
// Топик: rul/sensors/{device_id}
func (p *MQTTProcessor) handleMessage(client mqtt.Client, msg mqtt.Message) {
	deviceID := deviceFromTopic(msg.Topic())
	if deviceID == "" {
		log.Printf("⚠️ Не удалось извлечь device_id из топика: %s", msg.Topic())
		return
	}

	var sample models.SensorSample
	if err := json.Unmarshal(msg.Payload(), &sample); err != nil {
		log.Printf("❌ Ошибка парсинга сэмпла с устройства %s: %v", deviceID, err)
		return
	}

	select {
	case p.dataChannel <- deviceSample{DeviceID: deviceID, Sample: &sample}:
	default:
		log.Printf("⚠️ Канал обработки переполнен, сэмпл устройства %s отброшен", deviceID)
	}
}

// dataWorker переносит сэмплы из канала в окна устройств
func (p *MQTTProcessor) dataWorker() {
	defer p.wg.Done()

	for {
		select {
		case item := <-p.dataChannel:
			p.windows.AddSample(item.DeviceID, item.Sample)
		case <-p.ctx.Done():
			log.Println("🛑 MQTT data worker остановлен")
			return
		}
	}
}

// deviceFromTopic извлекает идентификатор устройства из последнего
// сегмента топика
func deviceFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-1]
}

// Stop останавливает процессор: отписка от топика и остановка воркера.
// Канал обработки не закрывается: paho может доставить сообщение уже
// после отписки, и handleMessage должен остаться безопасным.
func (p *MQTTProcessor) Stop() {
	log.Println("Остановка MQTT процессора...")

	if p.client.IsConnected() {
		if token := p.client.Unsubscribe(p.topic); token.Wait() && token.Error() != nil {
			log.Printf("⚠️ Ошибка отписки от топика %s: %v", p.topic, token.Error())
		}
	}

	p.cancel()
	p.wg.Wait()

	log.Println("MQTT процессор остановлен")
}
