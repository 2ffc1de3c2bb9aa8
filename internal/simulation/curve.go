package simulation

// Segment один сегмент кусочно-линейной кривой: value = Slope*p + Intercept
// для p <= UpperBound
type Segment struct {
	UpperBound float64
	Slope      float64
	Intercept  float64
}

// SegmentTable упорядоченная таблица сегментов кусочно-линейной функции.
// Сегменты проверяются сверху вниз, действует первый подходящий.
type SegmentTable []Segment

// Eval вычисляет значение кривой в точке p
func (t SegmentTable) Eval(p float64) float64 {
	for _, seg := range t {
		if p <= seg.UpperBound {
			return seg.Slope*p + seg.Intercept
		}
	}
	// За пределами таблицы продолжаем последний сегмент
	last := t[len(t)-1]
	return last.Slope*p + last.Intercept
}

// Breakpoints возвращает внутренние границы сегментов (без последней)
func (t SegmentTable) Breakpoints() []float64 {
	points := make([]float64, 0, len(t)-1)
	for _, seg := range t[:len(t)-1] {
		points = append(points, seg.UpperBound)
	}
	return points
}

// VoltageSegment сегмент кривой напряжения вибрации: при progress <= UpperBound
// напряжение = Offset + Gain*(degradation - DegradationBase)
type VoltageSegment struct {
	UpperBound      float64
	Offset          float64
	Gain            float64
	DegradationBase float64
}

// VoltageRamp таблица сегментов кривой напряжения. Параметризуется отдельно
// от кривой деградации: границы и коэффициенты у этих кривых независимые.
type VoltageRamp []VoltageSegment

// Eval вычисляет напряжение рампы для прогресса p и фактора деградации d
func (r VoltageRamp) Eval(p, d float64) float64 {
	for _, seg := range r {
		if p <= seg.UpperBound {
			return seg.Offset + seg.Gain*(d-seg.DegradationBase)
		}
	}
	last := r[len(r)-1]
	return last.Offset + last.Gain*(d-last.DegradationBase)
}
