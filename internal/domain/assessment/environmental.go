package assessment

import (
	"fmt"

	"github.com/activsafe/ActivSafe-Platform/pkg/errors"
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

// Temperatures outside this band (Fahrenheit) are treated as extreme.
const (
	minSafeTemperatureF = 32.0
	maxSafeTemperatureF = 90.0
)

const humidityHighPct = 80.0

// AssessEnvironment scores the venue conditions.  Contributions are not
// mutually exclusive: a slippery surface fires both the slippery and the
// non-dry increments.
func AssessEnvironment(input risk.EnvironmentalRiskInput) (*risk.EnvironmentalResult, error) {
	if !input.Surface.Valid() {
		return nil, errors.NewValidationError("surface_condition", fmt.Sprintf("%q is not a recognized surface condition", input.Surface))
	}
	if !input.Lighting.Valid() {
		return nil, errors.NewValidationError("lighting", fmt.Sprintf("%q is not a recognized lighting condition", input.Lighting))
	}
	if !input.Weather.Valid() {
		return nil, errors.NewValidationError("weather", fmt.Sprintf("%q is not a recognized weather condition", input.Weather))
	}
	if !input.AirQuality.Valid() {
		return nil, errors.NewValidationError("air_quality", fmt.Sprintf("%q is not a recognized air quality", input.AirQuality))
	}

	score := 0.0
	var factors []risk.RiskFactor
	var descriptions []string

	if input.Surface == risk.SurfaceSlippery {
		score += weightSlipperySurface
		factors = append(factors, risk.FactorSlipperySurface)
		descriptions = append(descriptions, "slippery surface")
	}
	if input.Lighting == risk.LightingPoor {
		score += weightPoorLighting
		factors = append(factors, risk.FactorPoorLighting)
		descriptions = append(descriptions, "poor lighting")
	}
	if input.TemperatureF < minSafeTemperatureF || input.TemperatureF > maxSafeTemperatureF {
		score += weightExtremeTemperature
		factors = append(factors, risk.FactorExtremeTemperature)
		descriptions = append(descriptions, fmt.Sprintf("temperature %.0f°F outside safe range", input.TemperatureF))
	}
	if input.HumidityPct > humidityHighPct {
		score += weightHighHumidity
		factors = append(factors, risk.FactorHighHumidity)
		descriptions = append(descriptions, fmt.Sprintf("humidity %.0f%% above threshold", input.HumidityPct))
	}
	if inc := input.Weather.AdverseIncrement(); inc > 0 {
		score += inc
		factors = append(factors, risk.FactorAdverseWeather)
		descriptions = append(descriptions, fmt.Sprintf("adverse weather: %s", input.Weather))
	}
	if input.AirQuality != risk.AirGood {
		score += weightPoorAirQuality
		factors = append(factors, risk.FactorPoorAirQuality)
		descriptions = append(descriptions, fmt.Sprintf("air quality: %s", input.AirQuality))
	}
	if input.Surface != risk.SurfaceDry {
		score += weightNonDrySurface
		factors = append(factors, risk.FactorWetSurface)
		descriptions = append(descriptions, fmt.Sprintf("surface condition: %s", input.Surface))
	}

	score = clampScore(score)
	level := classifySecondary(score)

	if len(descriptions) == 0 {
		descriptions = []string{"No significant factors"}
	}

	return &risk.EnvironmentalResult{
		DimensionResult: risk.DimensionResult{
			Dimension: risk.CategoryEnvironmental,
			Level:     level,
			Score:     score,
			Factors:   factors,
		},
		EnvironmentalFactors: descriptions,
		SafetyMeasures:       environmentalSafetyMeasures(level),
	}, nil
}

func environmentalSafetyMeasures(level risk.RiskLevel) []string {
	switch level {
	case risk.RiskHigh:
		return []string{
			"consider postponing or relocating the activity",
			"continuous monitoring of conditions",
		}
	case risk.RiskMedium:
		return []string{"increase monitoring of conditions", "adjust activity to conditions"}
	default:
		return []string{"standard environmental precautions"}
	}
}
