// Package assessment implements the dimension scorers, group aggregation and
// composite assessment of the risk engine.  Every function here is pure and
// stateless: it reads its arguments and the constant vocabulary tables, and
// allocates only local result values, so concurrent calls need no locking.
package assessment

import (
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

// Additive score increments.  These are vocabulary constants, not
// configuration; changing a weight is a domain decision.
const (
	weightHighImpactType     = 0.30
	weightHighIntensity      = 0.20
	weightHighIntensityCombo = 0.25 // strenuous activity types compound with high intensity
	weightEquipmentRequired  = 0.20
	weightPhysicalContact    = 0.40
	creditLowIntensity       = 0.10
	weightMedicalCondition   = 0.30
	weightAllergy            = 0.15
	weightPreviousInjury     = 0.20
	weightBeginner           = 0.20
	weightYoungAge           = 0.10
	weightStudentIntensity   = 0.10
	weightSlipperySurface    = 0.40
	weightPoorLighting       = 0.30
	weightExtremeTemperature = 0.20
	weightHighHumidity       = 0.15
	weightPoorAirQuality     = 0.10
	weightNonDrySurface      = 0.20
	weightEquipmentHazard    = 0.50
	weightEquipmentFair      = 0.20
	weightInspectionOverdue  = 0.30
	weightInspectionDueSoon  = 0.15
	weightEquipmentAge       = 0.20
	weightLargeGroup         = 0.20
	weightMediumGroup        = 0.10
	weightHighRiskStudent    = 0.10
	weightMixedExperience    = 0.10
	weightMedicalPrevalence  = 0.15
	weightGroupHighIntensity = 0.15
)

// clampScore bounds a summed score to [0,1].  Every scorer clamps exactly
// once, after all increments are applied.
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// classifyPrimary maps a score to a level on the 0.7/0.4 boundaries used by
// the activity scorer and the composite assessor.
func classifyPrimary(score float64) risk.RiskLevel {
	switch {
	case score >= 0.7:
		return risk.RiskHigh
	case score >= 0.4:
		return risk.RiskMedium
	default:
		return risk.RiskLow
	}
}

// classifySecondary maps a score to a level on the 0.5/0.2 boundaries used by
// the student, environmental and equipment scorers.
func classifySecondary(score float64) risk.RiskLevel {
	switch {
	case score >= 0.5:
		return risk.RiskHigh
	case score >= 0.2:
		return risk.RiskMedium
	default:
		return risk.RiskLow
	}
}

// classifyGroup maps a group score to a level on the 0.5/0.3 boundaries.
// Groups classify high at lower absolute scores than individuals because a
// single incident in a group setting tends to cascade.
func classifyGroup(score float64) risk.RiskLevel {
	switch {
	case score >= 0.5:
		return risk.RiskHigh
	case score >= 0.3:
		return risk.RiskMedium
	default:
		return risk.RiskLow
	}
}

// levelRecommendations is the level-specific recommendation boilerplate shared
// by the activity scorer and the composite assessor.
var levelRecommendations = map[risk.RiskLevel][]string{
	risk.RiskHigh: {
		"Consider activity modification",
		"Increase supervision",
		"Review safety protocols",
	},
	risk.RiskMedium: {
		"Monitor participants closely",
		"Brief students on safety rules",
	},
	risk.RiskLow: {
		"Standard safety procedures apply",
	},
}

// recommendationsForLevel returns a copy of the boilerplate for the level.
func recommendationsForLevel(level risk.RiskLevel) []string {
	src := levelRecommendations[level]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// dedupStrings returns the input with duplicates removed, preserving
// first-seen order.
func dedupStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
