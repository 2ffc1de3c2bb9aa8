package rul

// Пороги качественной оценки состояния оборудования, часы.
// Нижняя граница каждой полосы включительна.
const (
	healthExcellentMin = 24 * 30 // больше месяца
	healthGoodMin      = 24 * 7  // больше недели
	healthModerateMin  = 24      // больше суток
	healthPoorMin      = 12
)

// HealthStatus сопоставляет остаточный ресурс в часах одной из пяти
// упорядоченных полос состояния
func HealthStatus(rulHours float64) string {
	switch {
	case rulHours >= healthExcellentMin:
		return "🟢 EXCELLENT (>30 days)"
	case rulHours >= healthGoodMin:
		return "🟡 GOOD (>7 days)"
	case rulHours >= healthModerateMin:
		return "🟠 MODERATE (>1 day)"
	case rulHours >= healthPoorMin:
		return "🔴 POOR (>12 hours)"
	default:
		return "⚫ CRITICAL (<12 hours)"
	}
}
