package assessment

import (
	"fmt"
	"time"

	"github.com/activsafe/ActivSafe-Platform/pkg/errors"
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

// Inspection recency boundaries.
const (
	inspectionOverdueDays = 90
	inspectionDueSoonDays = 60
)

const equipmentOldYears = 5

// AssessEquipment scores the condition of the equipment in use.  A missing
// last-inspection timestamp is treated as overdue: uninspected equipment
// cannot be assumed current.
func AssessEquipment(input risk.EquipmentRiskInput) (*risk.EquipmentResult, error) {
	return assessEquipmentAt(input, time.Now())
}

// assessEquipmentAt is AssessEquipment with an injected clock for tests.
func assessEquipmentAt(input risk.EquipmentRiskInput, now time.Time) (*risk.EquipmentResult, error) {
	if !input.Condition.Valid() {
		return nil, errors.NewValidationError("condition", fmt.Sprintf("%q is not a recognized equipment condition", input.Condition))
	}

	score := 0.0
	var factors []risk.RiskFactor
	var needs, checks []string

	switch input.Condition {
	case risk.EquipmentDamaged, risk.EquipmentPoor:
		score += weightEquipmentHazard
		factors = append(factors, risk.FactorEquipmentHazard)
		needs = append(needs, "repair or replace before use")
	case risk.EquipmentFair:
		score += weightEquipmentFair
		needs = append(needs, "schedule repair assessment")
	}

	switch days := daysSinceInspection(input.LastInspection, now); {
	case days > inspectionOverdueDays:
		score += weightInspectionOverdue
		factors = append(factors, risk.FactorOverdueInspection)
		needs = append(needs, "immediate safety inspection required")
	case days >= inspectionDueSoonDays:
		score += weightInspectionDueSoon
		needs = append(needs, "inspection due soon")
	}

	if input.AgeYears > equipmentOldYears {
		score += weightEquipmentAge
		factors = append(factors, risk.FactorEquipmentAge)
		needs = append(needs, "evaluate for age-related replacement")
	}

	if len(input.MaintenanceHistory) == 0 {
		needs = append(needs, "establish maintenance schedule")
	}

	score = clampScore(score)
	level := classifySecondary(score)

	if input.Condition == risk.EquipmentDamaged {
		checks = append(checks, "do not use without repair")
	}
	switch level {
	case risk.RiskHigh:
		checks = append(checks, "full inspection before each use")
	case risk.RiskMedium:
		checks = append(checks, "visual inspection before each use")
	default:
		checks = append(checks, "standard pre-use inspection")
	}

	return &risk.EquipmentResult{
		DimensionResult: risk.DimensionResult{
			Dimension: risk.CategoryEquipment,
			Level:     level,
			Score:     score,
			Factors:   factors,
		},
		MaintenanceNeeds: needs,
		SafetyChecks:     checks,
	}, nil
}

// daysSinceInspection returns whole days since the last inspection, or a value
// past the overdue boundary when no inspection is recorded.
func daysSinceInspection(last *time.Time, now time.Time) int {
	if last == nil {
		return inspectionOverdueDays + 1
	}
	return int(now.Sub(*last).Hours() / 24)
}
