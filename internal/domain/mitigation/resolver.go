// Package mitigation resolves triggered risk factors and an overall risk
// level into an actionable plan: strategies, an ordered implementation
// checklist, and a monitoring plan.  Resolution is a pure table lookup; the
// strategy catalog is a process-wide constant.
package mitigation

import (
	"github.com/activsafe/ActivSafe-Platform/pkg/errors"
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

// factorStrategies is the static factor → strategies catalog.  Order within
// each entry is the order strategies surface in the resolved plan.
var factorStrategies = map[risk.RiskFactor][]string{
	risk.FactorHighImpact: {
		"use proper technique",
		"provide adequate padding",
		"progressive training",
	},
	risk.FactorHighIntensity: {
		"mandatory warm-up and cool-down",
		"scheduled rest and hydration breaks",
	},
	risk.FactorEquipmentRequired: {
		"pre-use equipment check",
		"instruction on correct equipment use",
	},
	risk.FactorPhysicalContact: {
		"enforce contact rules strictly",
		"match participants by size and skill",
	},

	risk.FactorMedicalCondition: {
		"keep individual health plans accessible",
		"verify medication availability on site",
	},
	risk.FactorPreviousInjuryHistory: {
		"modified participation for affected areas",
		"monitor for recurring symptoms",
	},
	risk.FactorLackOfExperience: {
		"pair beginners with experienced partners",
		"break skills into guided progressions",
	},
	risk.FactorAgeRelated: {
		"age-appropriate activity scaling",
		"shorter activity intervals",
	},

	risk.FactorSlipperySurface: {
		"dry or treat the surface before use",
		"require appropriate footwear",
	},
	risk.FactorPoorLighting: {
		"supplement lighting before proceeding",
		"restrict activity to well-lit areas",
	},
	risk.FactorExtremeTemperature: {
		"adjust session length to conditions",
		"provide shade or shelter and hydration",
	},
	risk.FactorHighHumidity: {
		"increase hydration break frequency",
		"reduce exertion targets",
	},
	risk.FactorAdverseWeather: {
		"move activity indoors if possible",
		"set weather abort criteria in advance",
	},
	risk.FactorPoorAirQuality: {
		"limit sustained aerobic exertion",
		"monitor students with respiratory conditions",
	},
	risk.FactorWetSurface: {
		"slow-paced movement drills only",
		"mark wet areas clearly",
	},

	risk.FactorEquipmentHazard: {
		"remove hazardous equipment from service",
		"substitute inspected equipment",
	},
	risk.FactorOverdueInspection: {
		"complete safety inspection before use",
		"log inspection outcome",
	},
	risk.FactorEquipmentAge: {
		"prioritize aged equipment for replacement",
		"increase inspection frequency",
	},
}

// highLevelStrategies are appended whenever the overall level is high or
// above, independent of which factors fired.
var highLevelStrategies = []string{
	"increase supervision ratio",
	"medical clearance for high-risk students",
	"emergency response plan activation",
}

// implementationSteps is the fixed checklist attached to every plan.  The
// order is deliberate and identical regardless of level.
var implementationSteps = []string{
	"review the resolved strategies with all supervising staff",
	"communicate expectations and restrictions to students",
	"implement the strategies before the session begins",
	"monitor the key indicators throughout the session",
	"document observations and incidents after the session",
}

// Frequencies for the monitoring plan.
const (
	FrequencyContinuous = "continuous"
	FrequencyPeriodic   = "periodic"
)

// Resolve maps the triggered factors and the overall level to a mitigation
// plan.  Unknown factors are rejected; the factor set is otherwise taken as
// given and not re-derived.
func Resolve(factors []risk.RiskFactor, level risk.RiskLevel) (*risk.MitigationPlan, error) {
	if !level.Valid() {
		return nil, errors.NewValidationError("risk_level", "risk level outside vocabulary")
	}
	for _, f := range factors {
		if !f.Valid() {
			return nil, errors.NewVocabularyError(errors.ErrCodeUnknownRiskFactor, string(f))
		}
	}

	seen := make(map[string]struct{})
	var strategies []string
	add := func(ss []string) {
		for _, s := range ss {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			strategies = append(strategies, s)
		}
	}

	for _, f := range factors {
		add(factorStrategies[f])
	}
	if level.AtLeast(risk.RiskHigh) {
		add(highLevelStrategies)
	}
	if len(strategies) == 0 {
		strategies = []string{"maintain standard safety procedures"}
	}

	steps := make([]string, len(implementationSteps))
	copy(steps, implementationSteps)

	indicators := make([]risk.RiskFactor, len(factors))
	copy(indicators, factors)

	return &risk.MitigationPlan{
		Strategies:          strategies,
		ImplementationSteps: steps,
		Monitoring: risk.MonitoringPlan{
			Checkpoints:    monitoringCheckpoints(level),
			KeyIndicators:  indicators,
			ResponsePlan:   responsePlan(level),
			CheckFrequency: checkFrequency(level),
		},
		RiskLevel: level,
	}, nil
}

func checkFrequency(level risk.RiskLevel) string {
	if level.AtLeast(risk.RiskHigh) {
		return FrequencyContinuous
	}
	return FrequencyPeriodic
}

func monitoringCheckpoints(level risk.RiskLevel) []string {
	checkpoints := []string{
		"before the session begins",
		"at each activity transition",
		"at the end of the session",
	}
	if level.AtLeast(risk.RiskHigh) {
		checkpoints = append(checkpoints, "throughout active participation")
	}
	return checkpoints
}

func responsePlan(level risk.RiskLevel) []string {
	plan := []string{
		"stop the activity on any indicator breach",
		"apply first aid and escalate per school policy",
	}
	if level.AtLeast(risk.RiskHigh) {
		plan = append(plan, "notify emergency contacts immediately")
	}
	return plan
}
