package rul

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatScalesRawPrediction(t *testing.T) {
	f := NewFormatter(10) // 10 минут на единицу предсказания

	// 6 единиц * 10 минут = 60 минут = 1 час
	result := f.Format(6)
	assert.InDelta(t, 1.0, result.ValueHours, 1e-9)
	assert.Equal(t, UnitDays, result.Unit)
	assert.Equal(t, "0 days 1 hour", result.Formatted)
}

func TestFormatHoursValueBuckets(t *testing.T) {
	f := NewFormatter(10)

	tests := []struct {
		name      string
		hours     float64
		unit      string
		formatted string
	}{
		{"месячная граница", 720, UnitMonths, "1 month"},
		{"чуть ниже месяца", 719.999, UnitWeeks, "4 weeks 1 day"},
		{"два месяца с остатком", 1500, UnitMonths, "2 months 2 days"},
		{"недельная граница", 168, UnitWeeks, "1 week"},
		{"чуть ниже недели", 167.999, UnitDays, "6 days 23 hours"},
		{"часовая граница", 1.0, UnitDays, "0 days 1 hour"},
		{"чуть ниже часа", 0.999, UnitHours, "1 hour"}, // минуты округляются до 60 и переносятся
		{"полчаса", 0.5, UnitHours, "0 hours 30 minutes"},
		{"ноль", 0, UnitHours, "0 hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := f.FormatHoursValue(tt.hours)
			assert.Equal(t, tt.unit, result.Unit)
			assert.Equal(t, tt.formatted, result.Formatted)
			assert.Equal(t, tt.hours, result.ValueHours)
		})
	}
}

func TestFormatComponentsFollowBucket(t *testing.T) {
	f := NewFormatter(10)

	months := f.FormatHoursValue(1500)
	require.NotNil(t, months.Months)
	require.NotNil(t, months.Days)
	assert.Equal(t, 2, *months.Months)
	assert.Equal(t, 2, *months.Days)
	assert.Nil(t, months.Weeks)
	assert.Nil(t, months.Hours)
	assert.Nil(t, months.Minutes)

	weeks := f.FormatHoursValue(200)
	require.NotNil(t, weeks.Weeks)
	require.NotNil(t, weeks.Days)
	assert.Equal(t, 1, *weeks.Weeks)
	assert.Equal(t, 1, *weeks.Days)
	assert.Nil(t, weeks.Months)

	days := f.FormatHoursValue(30)
	require.NotNil(t, days.Days)
	require.NotNil(t, days.Hours)
	assert.Equal(t, 1, *days.Days)
	assert.Equal(t, 6, *days.Hours)

	hours := f.FormatHoursValue(0.25)
	require.NotNil(t, hours.Hours)
	require.NotNil(t, hours.Minutes)
	assert.Equal(t, 0, *hours.Hours)
	assert.Equal(t, 15, *hours.Minutes)
}

func TestFormatMinuteCarry(t *testing.T) {
	f := NewFormatter(10)

	// 0.9999 часа: 59.994 минуты округляются до 60 и переносятся в час
	result := f.FormatHoursValue(0.9999)
	require.NotNil(t, result.Hours)
	require.NotNil(t, result.Minutes)
	assert.Equal(t, 1, *result.Hours)
	assert.Equal(t, 0, *result.Minutes)
	assert.Equal(t, "1 hour", result.Formatted)
}

func TestFormatZeroSecondaryOmitted(t *testing.T) {
	f := NewFormatter(10)

	assert.Equal(t, "1 month", f.FormatHoursValue(720).Formatted)
	assert.Equal(t, "2 weeks", f.FormatHoursValue(336).Formatted)
	assert.Equal(t, "1 day", f.FormatHoursValue(24).Formatted)
	assert.Equal(t, "2 days", f.FormatHoursValue(48).Formatted)
}
