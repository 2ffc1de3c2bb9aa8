package models

// AccelReading показания акселерометра по трем осям в g
type AccelReading struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// VibrationReading показание вибродатчика
type VibrationReading struct {
	Voltage float64 `json:"voltage"` // напряжение 0-3.3В
	Level   string  `json:"level"`   // классификация уровня вибрации
}

// PhaseInfo информация о текущей фазе деградации оборудования
type PhaseInfo struct {
	Phase             string  `json:"phase"`
	ProgressPercent   float64 `json:"progress_percent"`
	DegradationFactor float64 `json:"degradation_factor"`
	TimeElapsed       float64 `json:"time_elapsed"`
	RemainingTime     float64 `json:"remaining_time"`
}

// SensorSample один сэмпл со всех каналов датчиков
type SensorSample struct {
	Timestamp     float64          `json:"timestamp"`
	SampleNumber  int              `json:"sample_number,omitempty"`
	Accelerometer AccelReading     `json:"accelerometer"`
	Vibration     VibrationReading `json:"vibration"`
	PhaseInfo     *PhaseInfo       `json:"simulation_info,omitempty"` // только для симуляции
}

// BatchInfo метаданные батча сэмплов
type BatchInfo struct {
	SampleCount int     `json:"sample_count"`
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
	Duration    float64 `json:"duration"`
}

// AccelBatch массивы показаний акселерометра по осям
type AccelBatch struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
	Z []float64 `json:"z"`
}

// SensorBatch батч сэмплов для извлечения фичей и предсказания
type SensorBatch struct {
	Mode       string     `json:"mode"`
	DeviceID   string     `json:"device_id,omitempty"`
	BatchInfo  BatchInfo  `json:"batch_info"`
	AccelData  AccelBatch `json:"accel_data"`
	VibData    []float64  `json:"vib_data"`
	Timestamps []float64  `json:"timestamps"`
}

// FeatureVector8 канонические 8 статистических фичей одного канала
type FeatureVector8 struct {
	RMS         float64 `json:"rms"`
	Peak        float64 `json:"peak"`
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"std_dev"`
	Kurtosis    float64 `json:"kurtosis"`
	Skewness    float64 `json:"skewness"`
	CrestFactor float64 `json:"crest_factor"`
	Entropy     float64 `json:"entropy"`
}

// Values возвращает фичи в порядке, ожидаемом моделью
func (f FeatureVector8) Values() []float64 {
	return []float64{f.RMS, f.Peak, f.Mean, f.StdDev, f.Kurtosis, f.Skewness, f.CrestFactor, f.Entropy}
}

// FeatureNames канонические имена 8 фичей в порядке вектора
var FeatureNames = []string{"RMS", "Peak", "Mean", "Std", "Kurtosis", "Skewness", "Crest", "Entropy"}

// FeatureExtraction фичи по всем каналам батча (4 канала × 8 = 32 значения)
type FeatureExtraction struct {
	AccelXFeatures         []float64 `json:"accel_x_features"`
	AccelYFeatures         []float64 `json:"accel_y_features"`
	AccelZFeatures         []float64 `json:"accel_z_features"`
	VibrationFeatures      []float64 `json:"vibration_features"`
	AccelMagnitudeFeatures []float64 `json:"accel_magnitude_features"`
	FeatureNames           []string  `json:"feature_names"`
	TotalFeaturesExtracted int       `json:"total_features_extracted"`
}
