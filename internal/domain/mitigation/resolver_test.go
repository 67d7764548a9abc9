package mitigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activsafe/ActivSafe-Platform/pkg/errors"
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

func TestResolve_HighImpactStrategies(t *testing.T) {
	plan, err := Resolve([]risk.RiskFactor{risk.FactorHighImpact}, risk.RiskMedium)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"use proper technique",
		"provide adequate padding",
		"progressive training",
	}, plan.Strategies)
	assert.Equal(t, risk.RiskMedium, plan.RiskLevel)
}

func TestResolve_HighLevelAppendsEscalation(t *testing.T) {
	plan, err := Resolve([]risk.RiskFactor{risk.FactorHighImpact}, risk.RiskHigh)
	require.NoError(t, err)

	assert.Contains(t, plan.Strategies, "increase supervision ratio")
	assert.Contains(t, plan.Strategies, "medical clearance for high-risk students")
	assert.Contains(t, plan.Strategies, "emergency response plan activation")
	// Factor strategies come first, escalation last.
	assert.Equal(t, "use proper technique", plan.Strategies[0])
}

func TestResolve_StrategiesDeduplicated(t *testing.T) {
	plan, err := Resolve([]risk.RiskFactor{
		risk.FactorHighImpact,
		risk.FactorHighImpact,
		risk.FactorPhysicalContact,
	}, risk.RiskLow)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, s := range plan.Strategies {
		seen[s]++
	}
	for s, n := range seen {
		assert.Equal(t, 1, n, "strategy %q appears %d times", s, n)
	}
}

func TestResolve_NoFactorsFallsBackToStandard(t *testing.T) {
	plan, err := Resolve(nil, risk.RiskLow)
	require.NoError(t, err)
	assert.Equal(t, []string{"maintain standard safety procedures"}, plan.Strategies)
}

func TestResolve_ImplementationStepsFixedOrder(t *testing.T) {
	low, err := Resolve(nil, risk.RiskLow)
	require.NoError(t, err)
	high, err := Resolve([]risk.RiskFactor{risk.FactorEquipmentHazard}, risk.RiskHigh)
	require.NoError(t, err)

	assert.Equal(t, low.ImplementationSteps, high.ImplementationSteps)
	require.Len(t, low.ImplementationSteps, 5)
	assert.Contains(t, low.ImplementationSteps[0], "review")
	assert.Contains(t, low.ImplementationSteps[1], "communicate")
	assert.Contains(t, low.ImplementationSteps[2], "implement")
	assert.Contains(t, low.ImplementationSteps[3], "monitor")
	assert.Contains(t, low.ImplementationSteps[4], "document")
}

func TestResolve_MonitoringPlan(t *testing.T) {
	factors := []risk.RiskFactor{risk.FactorSlipperySurface, risk.FactorMedicalCondition}

	high, err := Resolve(factors, risk.RiskHigh)
	require.NoError(t, err)
	assert.Equal(t, FrequencyContinuous, high.Monitoring.CheckFrequency)
	assert.Equal(t, factors, high.Monitoring.KeyIndicators)
	assert.Contains(t, high.Monitoring.ResponsePlan, "notify emergency contacts immediately")

	low, err := Resolve(factors, risk.RiskLow)
	require.NoError(t, err)
	assert.Equal(t, FrequencyPeriodic, low.Monitoring.CheckFrequency)
	assert.NotContains(t, low.Monitoring.ResponsePlan, "notify emergency contacts immediately")
}

func TestResolve_EveryVocabularyFactorHasStrategies(t *testing.T) {
	all := []risk.RiskFactor{
		risk.FactorHighImpact, risk.FactorHighIntensity, risk.FactorEquipmentRequired,
		risk.FactorPhysicalContact, risk.FactorMedicalCondition, risk.FactorPreviousInjuryHistory,
		risk.FactorLackOfExperience, risk.FactorAgeRelated, risk.FactorSlipperySurface,
		risk.FactorPoorLighting, risk.FactorExtremeTemperature, risk.FactorHighHumidity,
		risk.FactorAdverseWeather, risk.FactorPoorAirQuality, risk.FactorWetSurface,
		risk.FactorEquipmentHazard, risk.FactorOverdueInspection, risk.FactorEquipmentAge,
	}
	for _, f := range all {
		plan, err := Resolve([]risk.RiskFactor{f}, risk.RiskLow)
		require.NoError(t, err)
		assert.NotEqual(t, []string{"maintain standard safety procedures"}, plan.Strategies,
			"factor %s has no catalog entry", f)
	}
}

func TestResolve_UnknownFactorRejected(t *testing.T) {
	_, err := Resolve([]risk.RiskFactor{"meteor_strike"}, risk.RiskLow)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnknownRiskFactor, errors.GetCode(err))
}

func TestResolve_InvalidLevelRejected(t *testing.T) {
	_, err := Resolve(nil, "catastrophic")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}
