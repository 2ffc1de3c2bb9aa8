package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDegradationCurveAnchors(t *testing.T) {
	curve := DefaultConfig().DegradationCurve

	assert.InDelta(t, 0.0, curve.Eval(0.0), 1e-12)
	assert.InDelta(t, 0.02, curve.Eval(0.40), 1e-12)
	assert.InDelta(t, 0.20, curve.Eval(0.70), 1e-12)
	assert.InDelta(t, 0.60, curve.Eval(0.90), 1e-12)
	assert.InDelta(t, 1.00, curve.Eval(1.00), 1e-12)
}

func TestDegradationCurveContinuity(t *testing.T) {
	curve := DefaultConfig().DegradationCurve

	for _, bp := range curve.Breakpoints() {
		left := curve.Eval(bp)
		right := curve.Eval(bp + 1e-10)
		assert.InDelta(t, left, right, 1e-9, "разрыв кривой в точке %.2f", bp)
	}
}

func TestDegradationCurveMonotonic(t *testing.T) {
	curve := DefaultConfig().DegradationCurve

	prev := curve.Eval(0)
	for i := 1; i <= 1000; i++ {
		p := float64(i) / 1000
		cur := curve.Eval(p)
		require.GreaterOrEqual(t, cur, prev, "кривая убывает в точке %.3f", p)
		prev = cur
	}
}

func TestSimulatorLifecycle(t *testing.T) {
	sim := NewSimulatorWithSeed(QuickTestConfig(), 42)

	require.Equal(t, 180, sim.TotalSamples())
	assert.False(t, sim.IsComplete())

	// Первый сэмпл: новое оборудование, деградация ноль
	first, ok := sim.NextSample()
	require.True(t, ok)
	require.NotNil(t, first.PhaseInfo)
	assert.Equal(t, "New Equipment", first.PhaseInfo.Phase)
	assert.InDelta(t, 0.0, first.PhaseInfo.DegradationFactor, 1e-12)
	assert.Equal(t, 1, first.SampleNumber)

	// Дорабатываем жизненный цикл до конца
	count := 1
	var last *SampleSnapshot
	for {
		sample, more := sim.NextSample()
		if !more {
			break
		}
		count++
		last = &SampleSnapshot{
			Phase:   sample.PhaseInfo.Phase,
			Voltage: sample.Vibration.Voltage,
		}
	}

	assert.Equal(t, 180, count)
	assert.True(t, sim.IsComplete())
	require.NotNil(t, last)
	assert.Equal(t, "Critical - Maintenance Required", last.Phase)

	// Терминальное состояние: сэмплов больше нет
	_, ok = sim.NextSample()
	assert.False(t, ok)

	// Reset возвращает к началу
	sim.Reset()
	assert.False(t, sim.IsComplete())
	assert.Equal(t, 0, sim.CurrentSample())
}

// SampleSnapshot срез сэмпла для проверок жизненного цикла
type SampleSnapshot struct {
	Phase   string
	Voltage float64
}

func TestSimulatorDeterministicWithSeed(t *testing.T) {
	a := NewSimulatorWithSeed(QuickTestConfig(), 7)
	b := NewSimulatorWithSeed(QuickTestConfig(), 7)

	for i := 0; i < 180; i++ {
		sa, oka := a.NextSample()
		sb, okb := b.NextSample()
		require.Equal(t, oka, okb)
		assert.Equal(t, sa.Accelerometer, sb.Accelerometer)
		assert.Equal(t, sa.Vibration, sb.Vibration)
	}
}

func TestSimulatorVoltageClamped(t *testing.T) {
	cfg := QuickTestConfig()
	sim := NewSimulatorWithSeed(cfg, 123)

	for {
		sample, ok := sim.NextSample()
		if !ok {
			break
		}
		assert.GreaterOrEqual(t, sample.Vibration.Voltage, 0.0)
		assert.LessOrEqual(t, sample.Vibration.Voltage, cfg.VoltageMax)
	}
}

func TestClassifyVoltage(t *testing.T) {
	sim := NewSimulatorWithSeed(DefaultConfig(), 1)

	assert.Equal(t, LevelLow, sim.ClassifyVoltage(0.0))
	assert.Equal(t, LevelLow, sim.ClassifyVoltage(0.49))
	assert.Equal(t, LevelModerate, sim.ClassifyVoltage(0.5))
	assert.Equal(t, LevelModerate, sim.ClassifyVoltage(1.19))
	assert.Equal(t, LevelHigh, sim.ClassifyVoltage(1.2))
	assert.Equal(t, LevelHigh, sim.ClassifyVoltage(3.3))
}

func TestPhaseLabelsByProgress(t *testing.T) {
	sim := NewSimulatorWithSeed(QuickTestConfig(), 1)

	tests := []struct {
		progress float64
		phase    string
	}{
		{0.00, "New Equipment"},
		{0.10, "New Equipment"},
		{0.25, "Healthy Operation"},
		{0.40, "Healthy Operation"},
		{0.55, "Early Degradation"},
		{0.70, "Early Degradation"},
		{0.80, "Advanced Degradation"},
		{0.90, "Advanced Degradation"},
		{0.95, "Critical - Maintenance Required"},
	}

	total := sim.TotalSamples()
	for _, tt := range tests {
		sim.Reset()
		for i := 0; i < int(tt.progress*float64(total)); i++ {
			sim.NextSample()
		}
		info := sim.PhaseInfo()
		assert.Equal(t, tt.phase, info.Phase, "прогресс %.2f", tt.progress)
	}
}

func TestVoltageRampSegments(t *testing.T) {
	cfg := DefaultConfig()
	ramp := cfg.VoltageRamp
	curve := cfg.DegradationCurve

	// Нормальная работа: рампа пропорциональна деградации
	d := curve.Eval(0.2)
	assert.InDelta(t, 0.5*d, ramp.Eval(0.2, d), 1e-12)

	// Конец раннего износа: 0.2 + 1.5*(0.20 - 0.02) = 0.47
	d = curve.Eval(0.70)
	assert.InDelta(t, 0.47, ramp.Eval(0.70, d), 1e-9)

	// Конец явной деградации: 0.7 + 2*(0.60 - 0.20) = 1.5
	d = curve.Eval(0.90)
	assert.InDelta(t, 1.5, ramp.Eval(0.90, d), 1e-9)

	// Отказ: 1.4 + 2.25*(1.0 - 0.6) = 2.3
	d = curve.Eval(1.0)
	assert.InDelta(t, 2.3, ramp.Eval(1.0, d), 1e-9)
}

func TestDegradationFactorWithinBounds(t *testing.T) {
	sim := NewSimulatorWithSeed(DefaultConfig(), 99)

	for i := 0; i <= 100; i++ {
		p := float64(i) / 100
		d := sim.DegradationFactorAt(p)
		assert.GreaterOrEqual(t, d, 0.0)
		assert.LessOrEqual(t, d, 1.0+1e-12)
		assert.False(t, math.IsNaN(d))
	}
}
