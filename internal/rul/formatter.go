// Package rul превращает сырой скаляр модели в калиброванную оценку
// остаточного ресурса оборудования с человекочитаемым описанием.
package rul

import (
	"fmt"
	"math"
)

// Единицы измерения результата
const (
	UnitMonths = "months"
	UnitWeeks  = "weeks"
	UnitDays   = "days"
	UnitHours  = "hours"
)

// Размеры корзин в часах
const (
	hoursPerDay   = 24
	hoursPerWeek  = 7 * 24  // 168
	hoursPerMonth = 30 * 24 // 720
)

// Result результат предсказания RUL
type Result struct {
	ValueHours float64 `json:"value"`
	Formatted  string  `json:"formatted"`
	Unit       string  `json:"unit"`

	// Компоненты разложения: заполняются только относящиеся к корзине
	Months  *int `json:"months,omitempty"`
	Weeks   *int `json:"weeks,omitempty"`
	Days    *int `json:"days,omitempty"`
	Hours   *int `json:"hours,omitempty"`
	Minutes *int `json:"minutes,omitempty"`
}

// Formatter конвертирует предсказание модели, выраженное в абстрактных
// единицах времени, в часы и далее в самую крупную осмысленную корзину
type Formatter struct {
	minutesPerUnit float64
}

// NewFormatter создает форматтер. minutesPerUnit — минут в одной единице
// предсказания модели (по умолчанию в системе 10).
func NewFormatter(minutesPerUnit float64) *Formatter {
	return &Formatter{minutesPerUnit: minutesPerUnit}
}

// Format конвертирует сырое предсказание модели в результат RUL
func (f *Formatter) Format(rawPrediction float64) Result {
	hours := rawPrediction * f.minutesPerUnit / 60.0
	return f.FormatHoursValue(hours)
}

// FormatHoursValue раскладывает значение в часах по корзинам.
// Корзины проверяются сверху вниз, действует первое совпадение.
func (f *Formatter) FormatHoursValue(hours float64) Result {
	switch {
	case hours >= hoursPerMonth:
		return formatMonths(hours)
	case hours >= hoursPerWeek:
		return formatWeeks(hours)
	case hours >= 1:
		return formatDays(hours)
	default:
		return formatHours(hours)
	}
}

func formatMonths(hours float64) Result {
	months := int(hours) / hoursPerMonth
	days := (int(hours) % hoursPerMonth) / hoursPerDay
	return Result{
		ValueHours: hours,
		Formatted:  joinComponents(plural(months, "month"), days, "day"),
		Unit:       UnitMonths,
		Months:     &months,
		Days:       &days,
	}
}

func formatWeeks(hours float64) Result {
	weeks := int(hours) / hoursPerWeek
	days := (int(hours) % hoursPerWeek) / hoursPerDay
	return Result{
		ValueHours: hours,
		Formatted:  joinComponents(plural(weeks, "week"), days, "day"),
		Unit:       UnitWeeks,
		Weeks:      &weeks,
		Days:       &days,
	}
}

func formatDays(hours float64) Result {
	days := int(hours) / hoursPerDay
	rem := int(hours) % hoursPerDay
	return Result{
		ValueHours: hours,
		Formatted:  joinComponents(plural(days, "day"), rem, "hour"),
		Unit:       UnitDays,
		Days:       &days,
		Hours:      &rem,
	}
}

func formatHours(hours float64) Result {
	h := int(hours)
	m := int(math.Round((hours - float64(h)) * 60))
	// Перенос минутного переполнения в дополнительный час
	if m == 60 {
		h++
		m = 0
	}
	return Result{
		ValueHours: hours,
		Formatted:  joinComponents(plural(h, "hour"), m, "minute"),
		Unit:       UnitHours,
		Hours:      &h,
		Minutes:    &m,
	}
}

// joinComponents собирает строку из первичной и вторичной компонент,
// нулевая вторичная опускается
func joinComponents(primary string, secondary int, secondaryUnit string) string {
	if secondary == 0 {
		return primary
	}
	return primary + " " + plural(secondary, secondaryUnit)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
