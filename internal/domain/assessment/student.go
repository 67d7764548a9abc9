package assessment

import (
	"fmt"

	"github.com/activsafe/ActivSafe-Platform/pkg/errors"
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

// AssessStudent scores one student profile in the context of the session's
// declared intensity.  A nil input is a caller error, not an empty profile.
func AssessStudent(input *risk.StudentRiskInput, intensity risk.Intensity) (*risk.StudentResult, error) {
	if input == nil {
		return nil, errors.New(errors.ErrCodeMissingInput, "student risk input is required")
	}
	if !input.ExperienceLevel.Valid() {
		return nil, errors.NewVocabularyError(errors.ErrCodeUnknownExperienceLevel, string(input.ExperienceLevel))
	}
	if !intensity.Valid() {
		return nil, errors.NewVocabularyError(errors.ErrCodeUnknownIntensity, string(intensity))
	}

	score := 0.0
	var factors []risk.RiskFactor
	var concerns, precautions, restrictions []string

	if len(input.MedicalConditions) > 0 {
		score += weightMedicalCondition
		factors = append(factors, risk.FactorMedicalCondition)
		for _, cond := range input.MedicalConditions {
			concerns = append(concerns, fmt.Sprintf("monitor condition: %s", cond))
		}
	}
	if len(input.Allergies) > 0 {
		score += weightAllergy
		for _, allergy := range input.Allergies {
			precautions = append(precautions, fmt.Sprintf("allergy awareness: %s", allergy))
		}
	}
	if len(input.PreviousInjuries) > 0 {
		score += weightPreviousInjury
		factors = append(factors, risk.FactorPreviousInjuryHistory)
		restrictions = append(restrictions, "modified activities for affected areas")
	}
	if input.ExperienceLevel == risk.ExperienceBeginner {
		score += weightBeginner
		factors = append(factors, risk.FactorLackOfExperience)
	}
	if input.Age < 10 {
		score += weightYoungAge
		factors = append(factors, risk.FactorAgeRelated)
	}

	if intensity == risk.IntensityHigh {
		// The restriction keys off the accumulated profile risk, before the
		// intensity increment itself is applied.
		if score > 0.3 {
			restrictions = append(restrictions, "reduce intensity for safety")
		}
		score += weightStudentIntensity
	}

	score = clampScore(score)
	level := classifySecondary(score)

	if level == risk.RiskHigh {
		precautions = append(precautions, "requires medical clearance")
	}
	if len(concerns) == 0 {
		concerns = []string{"None identified"}
	}
	if len(precautions) == 0 {
		precautions = []string{"standard safety precautions"}
	}

	return &risk.StudentResult{
		DimensionResult: risk.DimensionResult{
			Dimension: risk.CategoryStudent,
			Level:     level,
			Score:     score,
			Factors:   factors,
		},
		StudentID:            input.StudentID,
		MedicalConcerns:      concerns,
		Precautions:          precautions,
		ActivityRestrictions: restrictions,
	}, nil
}
