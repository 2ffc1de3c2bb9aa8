package simulation

import (
	"math"
	"math/rand"
	"time"

	"rul-monitor/internal/models"
)

// Уровни вибрации
const (
	LevelLow      = "Low/No Vibration"
	LevelModerate = "Moderate Vibration"
	LevelHigh     = "High Vibration"
)

// Config параметры симулятора деградации. Все числовые константы кривых
// вынесены в конфигурацию: 6-месячный жизненный цикл — канонический вариант,
// для стендовых прогонов есть 3-минутный пресет.
type Config struct {
	Duration     float64 // всего единиц времени симуляции
	SamplingRate float64 // сэмплов на единицу времени

	// Кривая фактора деградации (прогресс -> [0,1])
	DegradationCurve SegmentTable

	// Акселерометр
	BaseGravityZ       float64 // 1g покоя на оси Z
	VibAmpBase         float64 // базовая амплитуда вибрации, g
	VibAmpGain         float64 // прирост амплитуды с деградацией
	PrimaryFreqBase    float64 // базовая частота, Гц
	PrimaryFreqGain    float64
	HarmonicRatio      float64 // кратность гармоники (подшипники/шестерни)
	HarmonicAmpGain    float64
	HarmonicThreshold  float64 // гармоника включается выше этого уровня деградации
	AccelNoiseBase     float64
	AccelNoiseGain     float64
	FaultProbGain      float64 // вероятность сбойного пика на сэмпл (до ~5%)
	FaultSpikeMin      float64
	FaultSpikeMax      float64
	AxisPrimaryRatios  [3]float64 // ослабление основной вибрации по осям X,Y,Z
	AxisHarmonicRatios [3]float64
	AxisFaultRatios    [3]float64

	// Вибродатчик
	BaseVoltage    float64
	VoltageRamp    VoltageRamp // своя таблица сегментов, не переиспользует кривую деградации
	MainFreqBase   float64
	MainFreqGain   float64
	MainAmpRatio   float64
	HFThreshold    float64 // высокочастотная составляющая выше этого уровня
	HFFreqRatio    float64
	HFAmpGain      float64
	VibNoiseBase   float64
	VibNoiseGain   float64
	ShockProbGain  float64
	ShockSpikeMin  float64
	ShockSpikeMax  float64
	VoltageMax     float64 // физический диапазон датчика
	LevelLowMax    float64 // < LevelLowMax -> Low
	LevelModerMax  float64 // < LevelModerMax -> Moderate, иначе High
	PhaseNewEnd    float64 // суб-фаза "новое оборудование"
	PhaseHealthEnd float64
	PhaseEarlyEnd  float64
	PhaseAdvEnd    float64
}

// DefaultConfig канонический 6-месячный жизненный цикл:
// 180 сэмплов = 6 месяцев работы (1 сэмпл в день)
func DefaultConfig() Config {
	return Config{
		Duration:     180,
		SamplingRate: 1.0,

		DegradationCurve: SegmentTable{
			{UpperBound: 0.40, Slope: 0.05, Intercept: 0.0},   // нормальная работа: 0% -> 2%
			{UpperBound: 0.70, Slope: 0.60, Intercept: -0.22}, // ранний износ: 2% -> 20%
			{UpperBound: 0.90, Slope: 2.00, Intercept: -1.20}, // явная деградация: 20% -> 60%
			{UpperBound: 1.00, Slope: 4.00, Intercept: -3.00}, // критическое состояние: 60% -> 100%
		},

		BaseGravityZ:       1.0,
		VibAmpBase:         0.05,
		VibAmpGain:         0.40,
		PrimaryFreqBase:    2.0,
		PrimaryFreqGain:    3.0,
		HarmonicRatio:      2.5,
		HarmonicAmpGain:    0.2,
		HarmonicThreshold:  0.3,
		AccelNoiseBase:     0.02,
		AccelNoiseGain:     0.10,
		FaultProbGain:      0.05,
		FaultSpikeMin:      0.2,
		FaultSpikeMax:      0.8,
		AxisPrimaryRatios:  [3]float64{1.0, 0.7, 0.3},
		AxisHarmonicRatios: [3]float64{1.0, 0.8, 0.4},
		AxisFaultRatios:    [3]float64{1.0, 0.6, 0.3},

		BaseVoltage: 0.1,
		VoltageRamp: VoltageRamp{
			{UpperBound: 0.40, Offset: 0.0, Gain: 0.50, DegradationBase: 0.00},
			{UpperBound: 0.70, Offset: 0.2, Gain: 1.50, DegradationBase: 0.02},
			{UpperBound: 0.90, Offset: 0.7, Gain: 2.00, DegradationBase: 0.20},
			{UpperBound: 1.00, Offset: 1.4, Gain: 2.25, DegradationBase: 0.60},
		},
		MainFreqBase:  1.0,
		MainFreqGain:  1.5,
		MainAmpRatio:  0.3,
		HFThreshold:   0.20,
		HFFreqRatio:   8.0,
		HFAmpGain:     0.25,
		VibNoiseBase:  0.05,
		VibNoiseGain:  0.10,
		ShockProbGain: 0.03,
		ShockSpikeMin: 0.5,
		ShockSpikeMax: 1.5,
		VoltageMax:    3.3,
		LevelLowMax:   0.5,
		LevelModerMax: 1.2,

		PhaseNewEnd:    0.10,
		PhaseHealthEnd: 0.40,
		PhaseEarlyEnd:  0.70,
		PhaseAdvEnd:    0.90,
	}
}

// QuickTestConfig 3-минутный стендовый прогон: та же форма кривых,
// 180 сэмплов за 180 секунд (1 Гц)
func QuickTestConfig() Config {
	cfg := DefaultConfig()
	cfg.Duration = 180
	cfg.SamplingRate = 1.0
	return cfg
}

// Simulator генерирует синтетический сигнал прогрессирующей деградации
// вращающегося оборудования от установки до отказа. Состояние принадлежит
// одному владельцу: конкурентные вызовы NextSample на одном экземпляре
// не допускаются.
type Simulator struct {
	cfg           Config
	totalSamples  int
	currentSample int
	rng           *rand.Rand
}

// NewSimulator создает симулятор с недетерминированным зерном
func NewSimulator(cfg Config) *Simulator {
	return NewSimulatorWithSeed(cfg, time.Now().UnixNano())
}

// NewSimulatorWithSeed создает симулятор с заданным зерном (воспроизводимые прогоны)
func NewSimulatorWithSeed(cfg Config, seed int64) *Simulator {
	return &Simulator{
		cfg:          cfg,
		totalSamples: int(cfg.Duration * cfg.SamplingRate),
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// TotalSamples всего сэмплов в жизненном цикле
func (s *Simulator) TotalSamples() int {
	return s.totalSamples
}

// CurrentSample номер текущего сэмпла
func (s *Simulator) CurrentSample() int {
	return s.currentSample
}

// Progress доля пройденного жизненного цикла [0,1]
func (s *Simulator) Progress() float64 {
	return float64(s.currentSample) / float64(s.totalSamples)
}

// DegradationFactor текущий фактор деградации (0=новое, 1=отказ)
func (s *Simulator) DegradationFactor() float64 {
	return s.cfg.DegradationCurve.Eval(s.Progress())
}

// DegradationFactorAt фактор деградации для произвольного прогресса
func (s *Simulator) DegradationFactorAt(progress float64) float64 {
	return s.cfg.DegradationCurve.Eval(progress)
}

// simulateAccelerometer генерирует показания трех осей акселерометра.
// Одна физическая вибрация наблюдается на осях с фиксированными
// коэффициентами ослабления.
func (s *Simulator) simulateAccelerometer() (float64, float64, float64) {
	cfg := s.cfg
	degradation := s.DegradationFactor()

	// Амплитуда вибрации растет с износом
	amplitude := cfg.VibAmpBase + degradation*cfg.VibAmpGain

	timeFactor := float64(s.currentSample) / cfg.SamplingRate

	// Основная частота вибрации
	primaryFreq := cfg.PrimaryFreqBase + degradation*cfg.PrimaryFreqGain
	primary := amplitude * math.Sin(2*math.Pi*primaryFreq*timeFactor)

	// Гармоника появляется при заметном износе (подшипники/шестерни)
	harmonic := 0.0
	if degradation > cfg.HarmonicThreshold {
		harmonicFreq := primaryFreq * cfg.HarmonicRatio
		harmonic = degradation * cfg.HarmonicAmpGain * math.Sin(2*math.Pi*harmonicFreq*timeFactor)
	}

	// Независимый гауссов шум по осям
	noiseLevel := cfg.AccelNoiseBase + degradation*cfg.AccelNoiseGain
	noiseX := s.rng.NormFloat64() * noiseLevel
	noiseY := s.rng.NormFloat64() * noiseLevel
	noiseZ := s.rng.NormFloat64() * noiseLevel

	// Случайные сбойные пики, чаще с ростом деградации
	faultSpike := 0.0
	if s.rng.Float64() < degradation*cfg.FaultProbGain {
		faultSpike = (cfg.FaultSpikeMin + s.rng.Float64()*(cfg.FaultSpikeMax-cfg.FaultSpikeMin)) * degradation
	}

	x := primary*cfg.AxisPrimaryRatios[0] + harmonic*cfg.AxisHarmonicRatios[0] + noiseX + faultSpike*cfg.AxisFaultRatios[0]
	y := primary*cfg.AxisPrimaryRatios[1] + harmonic*cfg.AxisHarmonicRatios[1] + noiseY + faultSpike*cfg.AxisFaultRatios[1]
	z := cfg.BaseGravityZ + primary*cfg.AxisPrimaryRatios[2] + harmonic*cfg.AxisHarmonicRatios[2] + noiseZ + faultSpike*cfg.AxisFaultRatios[2]

	return x, y, z
}

// simulateVibration генерирует напряжение вибродатчика и классификацию уровня
func (s *Simulator) simulateVibration() (float64, string) {
	cfg := s.cfg
	degradation := s.DegradationFactor()
	progress := s.Progress()

	// Рампа напряжения по фазам жизненного цикла
	rampVoltage := cfg.VoltageRamp.Eval(progress, degradation)

	timeFactor := float64(s.currentSample) / cfg.SamplingRate

	// Основная частота растет с износом
	mainFreq := cfg.MainFreqBase + degradation*cfg.MainFreqGain
	mainVibration := rampVoltage * cfg.MainAmpRatio * (1 + math.Sin(2*math.Pi*mainFreq*timeFactor))

	// Высокочастотная составляющая после порога деградации
	hfVibration := 0.0
	if degradation > cfg.HFThreshold {
		hfFreq := mainFreq * cfg.HFFreqRatio
		hfAmplitude := (degradation - cfg.HFThreshold) * cfg.HFAmpGain
		hfVibration = hfAmplitude * math.Abs(math.Sin(2*math.Pi*hfFreq*timeFactor))
	}

	// Фоновый шум
	noise := s.rng.NormFloat64() * (cfg.VibNoiseBase + degradation*cfg.VibNoiseGain)

	// Редкие ударные события
	shockSpike := 0.0
	if s.rng.Float64() < degradation*cfg.ShockProbGain {
		shockSpike = (cfg.ShockSpikeMin + s.rng.Float64()*(cfg.ShockSpikeMax-cfg.ShockSpikeMin)) * degradation
	}

	total := cfg.BaseVoltage + rampVoltage + mainVibration + hfVibration + noise + shockSpike

	// Ограничение физическим диапазоном датчика
	voltage := math.Max(0, math.Min(cfg.VoltageMax, total))

	return voltage, s.ClassifyVoltage(voltage)
}

// ClassifyVoltage классифицирует напряжение вибрации по уровням
func (s *Simulator) ClassifyVoltage(voltage float64) string {
	switch {
	case voltage < s.cfg.LevelLowMax:
		return LevelLow
	case voltage < s.cfg.LevelModerMax:
		return LevelModerate
	default:
		return LevelHigh
	}
}

// PhaseInfo информация о текущей фазе деградации
func (s *Simulator) PhaseInfo() models.PhaseInfo {
	cfg := s.cfg
	progress := s.Progress()

	var phase string
	switch {
	case progress <= cfg.PhaseNewEnd:
		phase = "New Equipment"
	case progress <= cfg.PhaseHealthEnd:
		phase = "Healthy Operation"
	case progress <= cfg.PhaseEarlyEnd:
		phase = "Early Degradation"
	case progress <= cfg.PhaseAdvEnd:
		phase = "Advanced Degradation"
	default:
		phase = "Critical - Maintenance Required"
	}

	return models.PhaseInfo{
		Phase:             phase,
		ProgressPercent:   progress * 100,
		DegradationFactor: s.DegradationFactor(),
		TimeElapsed:       float64(s.currentSample) / cfg.SamplingRate,
		RemainingTime:     float64(s.totalSamples-s.currentSample) / cfg.SamplingRate,
	}
}

// NextSample возвращает следующий сэмпл последовательности.
// Второй результат false означает что жизненный цикл отработан.
func (s *Simulator) NextSample() (models.SensorSample, bool) {
	if s.currentSample >= s.totalSamples {
		return models.SensorSample{}, false
	}

	x, y, z := s.simulateAccelerometer()
	voltage, level := s.simulateVibration()
	info := s.PhaseInfo()

	sample := models.SensorSample{
		Timestamp:    float64(time.Now().UnixNano()) / 1e9,
		SampleNumber: s.currentSample + 1,
		Accelerometer: models.AccelReading{
			X: round3(x),
			Y: round3(y),
			Z: round3(z),
		},
		Vibration: models.VibrationReading{
			Voltage: round3(voltage),
			Level:   level,
		},
		PhaseInfo: &info,
	}

	s.currentSample++
	return sample, true
}

// Reset перезапускает симуляцию с начала
func (s *Simulator) Reset() {
	s.currentSample = 0
}

// IsComplete проверяет что все сэмплы выданы
func (s *Simulator) IsComplete() bool {
	return s.currentSample >= s.totalSamples
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
