// Package sensors описывает контракт каналов датчиков. Источник данных —
// реальное железо или симуляция — взаимозаменяем: потребители зависят
// только от интерфейсов.
package sensors

// Accelerometer трехосевой акселерометр
type Accelerometer interface {
	// GForce возвращает ускорение по осям X, Y, Z в g
	GForce() (x, y, z float64, err error)
}

// VibrationSensor аналоговый вибродатчик
type VibrationSensor interface {
	// RawVoltage возвращает напряжение сигнала, В
	RawVoltage() (float64, error)
	// VibrationLevel возвращает классификацию уровня вибрации
	VibrationLevel() (string, error)
}

// AnalogReader источник напряжения аналогового входа. Адресация физических
// пинов остается за внешней платформой.
type AnalogReader interface {
	ReadChannel(pin int) (float64, error)
}
