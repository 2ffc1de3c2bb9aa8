package sensors

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// SerialADC аналого-цифровой мост по последовательному порту.
// Контроллер шлет строки вида "1.089,1.102,1.234,0.312" — напряжения
// каналов через запятую. Чтение канала отдает значение из последней
// полной строки.
type SerialADC struct {
	port    *os.File
	scanner *bufio.Scanner

	mu       sync.Mutex
	channels []float64
}

// OpenSerialADC открывает последовательный порт АЦП
func OpenSerialADC(path string) (*SerialADC, error) {
	port, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("открытие порта %s: %w", path, err)
	}

	return &SerialADC{
		port:    port,
		scanner: bufio.NewScanner(port),
	}, nil
}

// ReadChannel читает напряжение канала, обновив значения из порта
func (a *SerialADC) ReadChannel(pin int) (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.refresh(); err != nil {
		return 0, err
	}

	if pin < 0 || pin >= len(a.channels) {
		return 0, fmt.Errorf("канал %d вне диапазона (каналов: %d)", pin, len(a.channels))
	}
	return a.channels[pin], nil
}

// refresh вычитывает следующую полную строку и разбирает напряжения
func (a *SerialADC) refresh() error {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return fmt.Errorf("чтение порта: %w", err)
		}
		return fmt.Errorf("порт закрыт")
	}

	line := strings.TrimSpace(a.scanner.Text())
	if line == "" {
		return nil
	}

	parts := strings.Split(line, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return fmt.Errorf("неверный формат строки АЦП %q: %w", line, err)
		}
		values = append(values, v)
	}

	a.channels = values
	return nil
}

// Close закрывает порт
func (a *SerialADC) Close() error {
	return a.port.Close()
}
