package sensors

import (
	"rul-monitor/internal/models"
	"rul-monitor/internal/simulation"
)

// SimulatedAccelerometer акселерометр, питающийся данными симулятора.
// До первого обновления возвращает показания покоя (0, 0, 1g).
type SimulatedAccelerometer struct {
	lastData *models.SensorSample
}

// NewSimulatedAccelerometer создает симулированный акселерометр
func NewSimulatedAccelerometer() *SimulatedAccelerometer {
	return &SimulatedAccelerometer{}
}

// GForce возвращает последние симулированные показания в g
func (a *SimulatedAccelerometer) GForce() (float64, float64, float64, error) {
	if a.lastData == nil {
		return 0.0, 0.0, 1.0, nil
	}
	accel := a.lastData.Accelerometer
	return accel.X, accel.Y, accel.Z, nil
}

// UpdateData подставляет свежий сэмпл симуляции
func (a *SimulatedAccelerometer) UpdateData(sample models.SensorSample) {
	a.lastData = &sample
}

// SimulatedVibrationSensor вибродатчик, питающийся данными симулятора.
// До первого обновления возвращает тихий фон 0.2В.
type SimulatedVibrationSensor struct {
	lastData *models.SensorSample
}

// NewSimulatedVibrationSensor создает симулированный вибродатчик
func NewSimulatedVibrationSensor() *SimulatedVibrationSensor {
	return &SimulatedVibrationSensor{}
}

// RawVoltage возвращает последнее симулированное напряжение
func (v *SimulatedVibrationSensor) RawVoltage() (float64, error) {
	if v.lastData == nil {
		return 0.2, nil
	}
	return v.lastData.Vibration.Voltage, nil
}

// VibrationLevel возвращает последнюю классификацию уровня
func (v *SimulatedVibrationSensor) VibrationLevel() (string, error) {
	if v.lastData == nil {
		return simulation.LevelLow, nil
	}
	return v.lastData.Vibration.Level, nil
}

// UpdateData подставляет свежий сэмпл симуляции
func (v *SimulatedVibrationSensor) UpdateData(sample models.SensorSample) {
	v.lastData = &sample
}
