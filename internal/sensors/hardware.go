package sensors

import "fmt"

// Калибровка ADXL335, пересчитанная с 5В Arduino на 3.3В платформу
const (
	adxlZeroGBias   = 1.65 * (3.3 / 5.0) // = 1.089В
	adxlSensitivity = 0.22 * (3.3 / 5.0) // = 0.145 В/g
)

// HardwareAccelerometer ADXL335 на трех аналоговых входах
type HardwareAccelerometer struct {
	reader            AnalogReader
	xPin, yPin, zPin  int
	bias, sensitivity float64
}

// NewHardwareAccelerometer создает акселерометр поверх аналоговых входов платформы
func NewHardwareAccelerometer(reader AnalogReader, xPin, yPin, zPin int) *HardwareAccelerometer {
	return &HardwareAccelerometer{
		reader:      reader,
		xPin:        xPin,
		yPin:        yPin,
		zPin:        zPin,
		bias:        adxlZeroGBias,
		sensitivity: adxlSensitivity,
	}
}

// RawVoltage читает напряжения трех осей
func (a *HardwareAccelerometer) RawVoltage() (float64, float64, float64, error) {
	xVolt, err := a.reader.ReadChannel(a.xPin)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("чтение оси X: %w", err)
	}
	yVolt, err := a.reader.ReadChannel(a.yPin)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("чтение оси Y: %w", err)
	}
	zVolt, err := a.reader.ReadChannel(a.zPin)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("чтение оси Z: %w", err)
	}
	return xVolt, yVolt, zVolt, nil
}

// GForce конвертирует напряжения осей в g по калибровке датчика
func (a *HardwareAccelerometer) GForce() (float64, float64, float64, error) {
	xVolt, yVolt, zVolt, err := a.RawVoltage()
	if err != nil {
		return 0, 0, 0, err
	}

	x := (xVolt - a.bias) / a.sensitivity
	y := (yVolt - a.bias) / a.sensitivity
	z := (zVolt - a.bias) / a.sensitivity
	return x, y, z, nil
}

// HardwareVibrationSensor аналоговый вибродатчик на одном входе
type HardwareVibrationSensor struct {
	reader    AnalogReader
	signalPin int

	// Пороги классификации уровня вибрации
	lowMax      float64
	moderateMax float64
}

// NewHardwareVibrationSensor создает вибродатчик поверх аналогового входа платформы
func NewHardwareVibrationSensor(reader AnalogReader, signalPin int) *HardwareVibrationSensor {
	return &HardwareVibrationSensor{
		reader:      reader,
		signalPin:   signalPin,
		lowMax:      0.5,
		moderateMax: 1.2,
	}
}

// RawVoltage читает напряжение сигнала датчика
func (v *HardwareVibrationSensor) RawVoltage() (float64, error) {
	voltage, err := v.reader.ReadChannel(v.signalPin)
	if err != nil {
		return 0, fmt.Errorf("чтение вибродатчика: %w", err)
	}
	return voltage, nil
}

// VibrationLevel классифицирует текущий уровень вибрации
func (v *HardwareVibrationSensor) VibrationLevel() (string, error) {
	voltage, err := v.RawVoltage()
	if err != nil {
		return "", err
	}

	switch {
	case voltage < v.lowMax:
		return "Low/No Vibration", nil
	case voltage < v.moderateMax:
		return "Moderate Vibration", nil
	default:
		return "High Vibration", nil
	}
}
