package physics

import "github.com/atlasrisk/engine/internal/models"

// WBGT approximates wet-bulb globe temperature from dry-bulb temperature and
// relative humidity.
func WBGT(tempC, humidityPct float64) float64 {
	return 0.7*tempC + 0.1*humidityPct
}

// HeatProductivityLoss returns workforce productivity loss as a percent: 0
// below 26°C WBGT, linear to 50% at 32°C, capped at 50%.
func HeatProductivityLoss(wbgt float64) float64 {
	const onsetC, capC, maxLossPct = 26.0, 32.0, 50.0
	if wbgt <= onsetC {
		return 0
	}
	if wbgt >= capC {
		return maxLossPct
	}
	return (wbgt - onsetC) / (capC - onsetC) * maxLossPct
}

// StressCategory buckets a productivity-loss percent into the five
// heat-stress categories.
func StressCategory(productivityLossPct float64) models.StressCategory {
	switch {
	case productivityLossPct <= 0:
		return models.StressLow
	case productivityLossPct < 15:
		return models.StressModerate
	case productivityLossPct < 30:
		return models.StressHigh
	case productivityLossPct < 45:
		return models.StressVeryHigh
	default:
		return models.StressExtreme
	}
}

// MalariaSuitability scores transmission suitability: 100 when both
// temperature and rainfall sit in the suitable band, 50 when only one does,
// 0 otherwise.
func MalariaSuitability(tempC, totalRainMM float64) float64 {
	tempSuitable := tempC >= 16 && tempC <= 34
	rainSuitable := totalRainMM > 80

	switch {
	case tempSuitable && rainSuitable:
		return 100
	case tempSuitable || rainSuitable:
		return 50
	default:
		return 0
	}
}
