package assessment

import (
	"fmt"

	"github.com/activsafe/ActivSafe-Platform/pkg/errors"
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

// Group size boundaries.
const (
	groupSizeLarge  = 30
	groupSizeMedium = 20
)

// AssessGroup scores a roster of students for one activity session.  Each
// student is scored individually first; roster-level signals (size, spread of
// experience, medical prevalence) then add on top.
func AssessGroup(students []risk.StudentRiskInput, activity risk.ActivityRiskInput) (*risk.GroupRiskResult, error) {
	if len(students) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyRoster, "group assessment requires at least one student")
	}
	if !activity.Type.Valid() {
		return nil, errors.NewVocabularyError(errors.ErrCodeUnknownActivityType, string(activity.Type))
	}
	if !activity.Intensity.Valid() {
		return nil, errors.NewVocabularyError(errors.ErrCodeUnknownIntensity, string(activity.Intensity))
	}

	results := make([]risk.StudentResult, 0, len(students))
	experience := make(map[risk.ExperienceLevel]struct{})
	withMedical := 0
	for i := range students {
		r, err := AssessStudent(&students[i], activity.Intensity)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeValidation,
				fmt.Sprintf("student %d of %d failed assessment", i+1, len(students)))
		}
		results = append(results, *r)
		experience[students[i].ExperienceLevel] = struct{}{}
		if len(students[i].MedicalConditions) > 0 {
			withMedical++
		}
	}

	score := 0.0
	var dynamics, supervision []string

	size := len(students)
	switch {
	case size > groupSizeLarge:
		score += weightLargeGroup
		dynamics = append(dynamics, fmt.Sprintf("large group of %d students", size))
	case size > groupSizeMedium:
		score += weightMediumGroup
		dynamics = append(dynamics, fmt.Sprintf("moderately sized group of %d students", size))
	}

	for _, r := range results {
		if r.Level == risk.RiskHigh {
			score += weightHighRiskStudent
			supervision = append(supervision, supervisionNote(r))
		}
	}

	if len(experience) > 2 {
		score += weightMixedExperience
		dynamics = append(dynamics, "wide spread of experience levels")
	}

	score += weightMedicalPrevalence * float64(withMedical) / float64(size)
	if withMedical > 0 {
		dynamics = append(dynamics, fmt.Sprintf("%d of %d students with medical conditions", withMedical, size))
	}

	if activity.Intensity == risk.IntensityHigh {
		score += weightGroupHighIntensity
		dynamics = append(dynamics, "high intensity session")
	}

	score = clampScore(score)
	level := classifyGroup(score)

	if level.AtLeast(risk.RiskMedium) {
		supervision = append(supervision, "increase supervisor-to-student ratio")
	}
	if len(dynamics) == 0 {
		dynamics = []string{"balanced group composition"}
	}
	if len(supervision) == 0 {
		supervision = []string{"standard supervision ratio"}
	}

	return &risk.GroupRiskResult{
		Level:             level,
		Score:             score,
		IndividualResults: results,
		GroupDynamics:     dedupStrings(dynamics),
		SupervisionNeeds:  dedupStrings(supervision),
	}, nil
}

func supervisionNote(r risk.StudentResult) string {
	if r.StudentID != "" {
		return fmt.Sprintf("close supervision for student %s", r.StudentID)
	}
	return "close supervision for high-risk student"
}
