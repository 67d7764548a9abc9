package risk

import "time"

// ActivityRiskInput describes one activity session to be scored.  Inputs are
// caller-supplied per assessment and never mutated by the engine.
type ActivityRiskInput struct {
	Type              ActivityType `json:"activity_type"`
	Intensity         Intensity    `json:"intensity"`
	EquipmentRequired bool         `json:"equipment_required"`
	PhysicalContact   bool         `json:"physical_contact"`
}

// StudentRiskInput is the per-student record feeding the student scorer.
// Re-assessing the same student with updated fields produces a new,
// independent result; prior results are never patched.
type StudentRiskInput struct {
	StudentID         string          `json:"student_id,omitempty"`
	MedicalConditions []string        `json:"medical_conditions"`
	Allergies         []string        `json:"allergies"`
	PreviousInjuries  []string        `json:"previous_injuries"`
	ExperienceLevel   ExperienceLevel `json:"experience_level"`
	Age               int             `json:"age"`
}

// EnvironmentalRiskInput describes the conditions at the activity venue.
type EnvironmentalRiskInput struct {
	Surface      SurfaceCondition  `json:"surface_condition"`
	Lighting     LightingCondition `json:"lighting"`
	TemperatureF float64           `json:"temperature_f"`
	HumidityPct  float64           `json:"humidity_pct"`
	Weather      WeatherCondition  `json:"weather"`
	AirQuality   AirQuality        `json:"air_quality"`
}

// EquipmentRiskInput describes the state of the equipment in use.
type EquipmentRiskInput struct {
	Condition          EquipmentCondition `json:"condition"`
	LastInspection     *time.Time         `json:"last_inspection,omitempty"`
	MaintenanceHistory []string           `json:"maintenance_history"`
	AgeYears           int                `json:"age_years"`
}

// DimensionResult is the pure value object produced by a dimension scorer.
// It is never mutated after creation.
type DimensionResult struct {
	Dimension FactorCategory `json:"dimension"`
	Level     RiskLevel      `json:"risk_level"`
	Score     float64        `json:"numeric_score"`
	Factors   []RiskFactor   `json:"risk_factors"`
}

// ActivityResult is the activity dimension's result with its level-specific
// recommendations.
type ActivityResult struct {
	DimensionResult
	Recommendations []string `json:"recommendations"`
}

// StudentResult is the student dimension's result with its medical advisories.
// MedicalConcerns and Precautions are guaranteed non-empty; "None identified"
// is the sentinel when nothing applies.
type StudentResult struct {
	DimensionResult
	StudentID            string   `json:"student_id,omitempty"`
	MedicalConcerns      []string `json:"medical_concerns"`
	Precautions          []string `json:"precautions"`
	ActivityRestrictions []string `json:"activity_restrictions,omitempty"`
}

// EnvironmentalResult is the environmental dimension's result.
// EnvironmentalFactors is guaranteed non-empty; "No significant factors" is
// the sentinel when nothing applies.
type EnvironmentalResult struct {
	DimensionResult
	EnvironmentalFactors []string `json:"environmental_factors"`
	SafetyMeasures       []string `json:"safety_measures"`
}

// EquipmentResult is the equipment dimension's result.
type EquipmentResult struct {
	DimensionResult
	MaintenanceNeeds []string `json:"maintenance_needs"`
	SafetyChecks     []string `json:"safety_checks"`
}

// GroupRiskResult aggregates the individual student results with
// roster-level signals.  GroupDynamics and SupervisionNeeds are guaranteed
// non-empty.
type GroupRiskResult struct {
	Level             RiskLevel       `json:"group_risk_level"`
	Score             float64         `json:"numeric_score"`
	IndividualResults []StudentResult `json:"individual_results"`
	GroupDynamics     []string        `json:"group_dynamics"`
	SupervisionNeeds  []string        `json:"supervision_needs"`
}

// CompositeAssessment is the merged result for one activity session: the
// unit persisted by the external store and rendered by the external report
// generator.
type CompositeAssessment struct {
	ID            string               `json:"id"`
	Activity      ActivityResult       `json:"activity"`
	Group         GroupRiskResult      `json:"group"`
	Environmental *EnvironmentalResult `json:"environmental,omitempty"`
	Equipment     *EquipmentResult     `json:"equipment,omitempty"`
	OverallLevel  RiskLevel            `json:"overall_risk_level"`
	Recommendations []string           `json:"recommendations"`
	GeneratedAt   time.Time            `json:"generated_at"`
}

// AllFactors returns the union of risk factors across every dimension of the
// assessment, including each individual student result, in first-seen order.
func (a *CompositeAssessment) AllFactors() []RiskFactor {
	seen := make(map[RiskFactor]struct{})
	var out []RiskFactor
	add := func(fs []RiskFactor) {
		for _, f := range fs {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	add(a.Activity.Factors)
	for _, s := range a.Group.IndividualResults {
		add(s.Factors)
	}
	if a.Environmental != nil {
		add(a.Environmental.Factors)
	}
	if a.Equipment != nil {
		add(a.Equipment.Factors)
	}
	return out
}

// MonitoringPlan is the observation schedule attached to a mitigation plan.
type MonitoringPlan struct {
	Checkpoints    []string     `json:"checkpoints"`
	KeyIndicators  []RiskFactor `json:"key_indicators"`
	ResponsePlan   []string     `json:"response_plan"`
	CheckFrequency string       `json:"check_frequency"` // "continuous" | "periodic"
}

// MitigationPlan resolves triggered factors and the overall level into
// actionable strategies.
type MitigationPlan struct {
	Strategies          []string       `json:"strategies"`
	ImplementationSteps []string       `json:"implementation_steps"`
	Monitoring          MonitoringPlan `json:"monitoring"`
	RiskLevel           RiskLevel      `json:"risk_level"`
}
