package rul

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthStatusBands(t *testing.T) {
	tests := []struct {
		name     string
		rulHours float64
		expected string
	}{
		{"выше месяца", 1000, "🟢 EXCELLENT (>30 days)"},
		{"ровно месяц", 720, "🟢 EXCELLENT (>30 days)"},
		{"чуть ниже месяца", 719.9, "🟡 GOOD (>7 days)"},
		{"ровно неделя", 168, "🟡 GOOD (>7 days)"},
		{"чуть ниже недели", 167.9, "🟠 MODERATE (>1 day)"},
		{"ровно сутки", 24, "🟠 MODERATE (>1 day)"},
		{"чуть ниже суток", 23.9, "🔴 POOR (>12 hours)"},
		{"ровно 12 часов", 12, "🔴 POOR (>12 hours)"},
		{"ниже 12 часов", 11.999, "⚫ CRITICAL (<12 hours)"},
		{"ноль", 0, "⚫ CRITICAL (<12 hours)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HealthStatus(tt.rulHours))
		})
	}
}
