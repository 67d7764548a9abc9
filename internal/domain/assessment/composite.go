package assessment

import (
	"time"

	"github.com/google/uuid"

	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

// riskLevelProxy converts a dimension's classification back to a numeric
// contribution for the overall average.
var riskLevelProxy = map[risk.RiskLevel]float64{
	risk.RiskLow:      0.2,
	risk.RiskMedium:   0.5,
	risk.RiskHigh:     0.8,
	risk.RiskCritical: 1.0,
}

// GenerateAssessment runs every dimension scorer and the group aggregator for
// one activity session and merges the results.  Environmental and equipment
// inputs are optional: when absent, the dimension degrades to a low-risk
// placeholder instead of failing the whole assessment.
//
// Callers either receive a complete, well-formed assessment or a validation
// error raised before any result is assembled.
func GenerateAssessment(
	activity risk.ActivityRiskInput,
	students []risk.StudentRiskInput,
	env *risk.EnvironmentalRiskInput,
	equip *risk.EquipmentRiskInput,
) (*risk.CompositeAssessment, error) {
	activityResult, err := AssessActivity(activity)
	if err != nil {
		return nil, err
	}

	groupResult, err := AssessGroup(students, activity)
	if err != nil {
		return nil, err
	}

	var envResult *risk.EnvironmentalResult
	if env != nil {
		envResult, err = AssessEnvironment(*env)
		if err != nil {
			return nil, err
		}
	} else {
		envResult = placeholderEnvironmentalResult()
	}

	var equipResult *risk.EquipmentResult
	if equip != nil {
		equipResult, err = AssessEquipment(*equip)
		if err != nil {
			return nil, err
		}
	} else {
		equipResult = placeholderEquipmentResult()
	}

	levels := []risk.RiskLevel{
		activityResult.Level,
		groupResult.Level,
		envResult.Level,
		equipResult.Level,
	}
	overall := classifyPrimary(averageProxy(levels))

	var recs []string
	for _, l := range levels {
		recs = append(recs, recommendationsForLevel(l)...)
	}
	recs = append(recs, recommendationsForLevel(overall)...)

	return &risk.CompositeAssessment{
		ID:              uuid.NewString(),
		Activity:        *activityResult,
		Group:           *groupResult,
		Environmental:   envResult,
		Equipment:       equipResult,
		OverallLevel:    overall,
		Recommendations: dedupStrings(recs),
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

func averageProxy(levels []risk.RiskLevel) float64 {
	sum := 0.0
	for _, l := range levels {
		sum += riskLevelProxy[l]
	}
	return sum / float64(len(levels))
}

func placeholderEnvironmentalResult() *risk.EnvironmentalResult {
	return &risk.EnvironmentalResult{
		DimensionResult: risk.DimensionResult{
			Dimension: risk.CategoryEnvironmental,
			Level:     risk.RiskLow,
			Score:     0,
		},
		EnvironmentalFactors: []string{"no data provided"},
		SafetyMeasures:       environmentalSafetyMeasures(risk.RiskLow),
	}
}

func placeholderEquipmentResult() *risk.EquipmentResult {
	return &risk.EquipmentResult{
		DimensionResult: risk.DimensionResult{
			Dimension: risk.CategoryEquipment,
			Level:     risk.RiskLow,
			Score:     0,
		},
		MaintenanceNeeds: []string{"no data provided"},
		SafetyChecks:     []string{"standard pre-use inspection"},
	}
}
