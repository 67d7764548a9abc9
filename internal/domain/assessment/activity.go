package assessment

import (
	"github.com/activsafe/ActivSafe-Platform/pkg/errors"
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

// AssessActivity scores one activity descriptor.  Vocabulary violations are
// rejected before any scoring; valid inputs always produce a complete result.
func AssessActivity(input risk.ActivityRiskInput) (*risk.ActivityResult, error) {
	if !input.Type.Valid() {
		return nil, errors.NewVocabularyError(errors.ErrCodeUnknownActivityType, string(input.Type))
	}
	if !input.Intensity.Valid() {
		return nil, errors.NewVocabularyError(errors.ErrCodeUnknownIntensity, string(input.Intensity))
	}

	score := 0.0
	var factors []risk.RiskFactor

	if input.Type.HighImpact() {
		score += weightHighImpactType
		factors = append(factors, risk.FactorHighImpact)
	}

	switch input.Intensity {
	case risk.IntensityHigh:
		if input.Type.Strenuous() {
			score += weightHighIntensityCombo
		} else {
			score += weightHighIntensity
		}
		factors = append(factors, risk.FactorHighIntensity)
	case risk.IntensityLow:
		score -= creditLowIntensity
	}

	if input.EquipmentRequired {
		score += weightEquipmentRequired
		factors = append(factors, risk.FactorEquipmentRequired)
	}
	if input.PhysicalContact {
		score += weightPhysicalContact
		factors = append(factors, risk.FactorPhysicalContact)
	}

	score = clampScore(score)
	level := classifyPrimary(score)

	return &risk.ActivityResult{
		DimensionResult: risk.DimensionResult{
			Dimension: risk.CategoryActivity,
			Level:     level,
			Score:     score,
			Factors:   factors,
		},
		Recommendations: recommendationsForLevel(level),
	}, nil
}
