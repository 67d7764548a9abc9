package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activsafe/ActivSafe-Platform/pkg/errors"
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

func TestAssessStudent_NilInput(t *testing.T) {
	_, err := AssessStudent(nil, risk.IntensityMedium)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeMissingInput, errors.GetCode(err))
}

func TestAssessStudent_CleanProfileIsLow(t *testing.T) {
	r, err := AssessStudent(&risk.StudentRiskInput{
		ExperienceLevel: risk.ExperienceAdvanced,
		Age:             16,
	}, risk.IntensityMedium)
	require.NoError(t, err)

	assert.Equal(t, 0.0, r.Score)
	assert.Equal(t, risk.RiskLow, r.Level)
	assert.Equal(t, []string{"None identified"}, r.MedicalConcerns)
	assert.Equal(t, []string{"standard safety precautions"}, r.Precautions)
	assert.Empty(t, r.Factors)
}

func TestAssessStudent_MedicalConditions(t *testing.T) {
	r, err := AssessStudent(&risk.StudentRiskInput{
		MedicalConditions: []string{"asthma", "diabetes"},
		ExperienceLevel:   risk.ExperienceIntermediate,
		Age:               14,
	}, risk.IntensityMedium)
	require.NoError(t, err)

	assert.InDelta(t, 0.30, r.Score, 1e-9)
	assert.Equal(t, risk.RiskMedium, r.Level)
	assert.Contains(t, r.Factors, risk.FactorMedicalCondition)
	assert.Len(t, r.MedicalConcerns, 2)
	assert.Contains(t, r.MedicalConcerns, "monitor condition: asthma")
}

func TestAssessStudent_InjuryHistoryRestriction(t *testing.T) {
	r, err := AssessStudent(&risk.StudentRiskInput{
		PreviousInjuries: []string{"sprained ankle"},
		ExperienceLevel:  risk.ExperienceAdvanced,
		Age:              15,
	}, risk.IntensityMedium)
	require.NoError(t, err)

	// Injuries alone land exactly on the 0.2 medium boundary.
	assert.InDelta(t, 0.20, r.Score, 1e-9)
	assert.Equal(t, risk.RiskMedium, r.Level)
	assert.Contains(t, r.Factors, risk.FactorPreviousInjuryHistory)
	assert.Contains(t, r.ActivityRestrictions, "modified activities for affected areas")
}

func TestAssessStudent_HighBoundaryAddsClearance(t *testing.T) {
	// medical (0.30) + injuries (0.20) = exactly 0.50.
	r, err := AssessStudent(&risk.StudentRiskInput{
		MedicalConditions: []string{"asthma"},
		PreviousInjuries:  []string{"fracture"},
		ExperienceLevel:   risk.ExperienceAdvanced,
		Age:               15,
	}, risk.IntensityMedium)
	require.NoError(t, err)

	assert.InDelta(t, 0.50, r.Score, 1e-9)
	assert.Equal(t, risk.RiskHigh, r.Level)
	assert.Contains(t, r.Precautions, "requires medical clearance")
}

func TestAssessStudent_HighIntensityRestriction(t *testing.T) {
	// medical (0.30) + allergy (0.15) = 0.45 > 0.3 before the intensity
	// increment, so the restriction fires.
	r, err := AssessStudent(&risk.StudentRiskInput{
		MedicalConditions: []string{"asthma"},
		Allergies:         []string{"peanuts"},
		ExperienceLevel:   risk.ExperienceIntermediate,
		Age:               14,
	}, risk.IntensityHigh)
	require.NoError(t, err)

	assert.InDelta(t, 0.55, r.Score, 1e-9)
	assert.Contains(t, r.ActivityRestrictions, "reduce intensity for safety")
	assert.Contains(t, r.Precautions, "allergy awareness: peanuts")
}

func TestAssessStudent_HighIntensityBelowRestrictionThreshold(t *testing.T) {
	// medical alone is 0.30, not >0.3, so only the increment applies.
	r, err := AssessStudent(&risk.StudentRiskInput{
		MedicalConditions: []string{"asthma"},
		ExperienceLevel:   risk.ExperienceIntermediate,
		Age:               14,
	}, risk.IntensityHigh)
	require.NoError(t, err)

	assert.InDelta(t, 0.40, r.Score, 1e-9)
	assert.NotContains(t, r.ActivityRestrictions, "reduce intensity for safety")
}

func TestAssessStudent_BeginnerAndAgeFactors(t *testing.T) {
	r, err := AssessStudent(&risk.StudentRiskInput{
		ExperienceLevel: risk.ExperienceBeginner,
		Age:             8,
	}, risk.IntensityMedium)
	require.NoError(t, err)

	assert.InDelta(t, 0.30, r.Score, 1e-9)
	assert.Contains(t, r.Factors, risk.FactorLackOfExperience)
	assert.Contains(t, r.Factors, risk.FactorAgeRelated)
}

func TestAssessStudent_ClampedWhenEverythingFires(t *testing.T) {
	r, err := AssessStudent(&risk.StudentRiskInput{
		MedicalConditions: []string{"asthma"},
		Allergies:         []string{"bee stings"},
		PreviousInjuries:  []string{"concussion"},
		ExperienceLevel:   risk.ExperienceBeginner,
		Age:               9,
	}, risk.IntensityHigh)
	require.NoError(t, err)

	assert.Equal(t, 1.0, r.Score)
	assert.Equal(t, risk.RiskHigh, r.Level)
}

func TestAssessStudent_FactorsStayInStudentVocabulary(t *testing.T) {
	r, err := AssessStudent(&risk.StudentRiskInput{
		MedicalConditions: []string{"asthma"},
		PreviousInjuries:  []string{"fracture"},
		ExperienceLevel:   risk.ExperienceBeginner,
		Age:               8,
	}, risk.IntensityHigh)
	require.NoError(t, err)

	for _, f := range r.Factors {
		cat, ok := f.Category()
		require.True(t, ok)
		assert.Equal(t, risk.CategoryStudent, cat)
	}
}

func TestAssessStudent_UnknownExperienceLevel(t *testing.T) {
	_, err := AssessStudent(&risk.StudentRiskInput{
		ExperienceLevel: "expert",
		Age:             15,
	}, risk.IntensityMedium)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnknownExperienceLevel, errors.GetCode(err))
}

func TestAssessStudent_Idempotent(t *testing.T) {
	input := &risk.StudentRiskInput{
		StudentID:         "s-17",
		MedicalConditions: []string{"asthma"},
		ExperienceLevel:   risk.ExperienceBeginner,
		Age:               9,
	}
	a, err := AssessStudent(input, risk.IntensityHigh)
	require.NoError(t, err)
	b, err := AssessStudent(input, risk.IntensityHigh)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
