package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevelOrder(t *testing.T) {
	order := []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("%s should rank above %s", order[i], order[i-1])
		}
	}
	if RiskLevel("extreme").Rank() != -1 {
		t.Error("unknown level must rank -1")
	}
}

func TestRiskLevelAtLeast(t *testing.T) {
	assert.True(t, RiskHigh.AtLeast(RiskMedium))
	assert.True(t, RiskHigh.AtLeast(RiskHigh))
	assert.False(t, RiskLow.AtLeast(RiskMedium))
}

func TestMaxRiskLevel(t *testing.T) {
	assert.Equal(t, RiskLow, MaxRiskLevel())
	assert.Equal(t, RiskHigh, MaxRiskLevel(RiskLow, RiskHigh, RiskMedium))
	assert.Equal(t, RiskCritical, MaxRiskLevel(RiskCritical, RiskLow))
}

func TestFactorCategories(t *testing.T) {
	tests := []struct {
		factor   RiskFactor
		category FactorCategory
	}{
		{FactorHighImpact, CategoryActivity},
		{FactorPhysicalContact, CategoryActivity},
		{FactorMedicalCondition, CategoryStudent},
		{FactorLackOfExperience, CategoryStudent},
		{FactorSlipperySurface, CategoryEnvironmental},
		{FactorAdverseWeather, CategoryEnvironmental},
		{FactorEquipmentHazard, CategoryEquipment},
		{FactorEquipmentAge, CategoryEquipment},
	}
	for _, tt := range tests {
		got, ok := tt.factor.Category()
		if !ok {
			t.Fatalf("factor %s should be in the vocabulary", tt.factor)
		}
		if got != tt.category {
			t.Errorf("factor %s: got category %s, want %s", tt.factor, got, tt.category)
		}
	}

	if _, ok := RiskFactor("slippery_floor").Category(); ok {
		t.Error("unknown factor must not resolve to a category")
	}
}

func TestActivityTypeVocabulary(t *testing.T) {
	assert.True(t, ActivityTeamSports.Valid())
	assert.False(t, ActivityType("juggling").Valid())

	assert.True(t, ActivityTeamSports.HighImpact())
	assert.True(t, ActivityMartialArts.HighImpact())
	assert.False(t, ActivityDance.HighImpact())

	assert.True(t, ActivityAthletics.Strenuous())
	assert.False(t, ActivityTeamSports.Strenuous())
}

func TestIntensityAndExperienceVocabulary(t *testing.T) {
	assert.True(t, IntensityHigh.Valid())
	assert.False(t, Intensity("extreme").Valid())
	assert.True(t, ExperienceBeginner.Valid())
	assert.False(t, ExperienceLevel("expert").Valid())
}

func TestAdverseWeatherIncrements(t *testing.T) {
	if WeatherClear.AdverseIncrement() != 0 {
		t.Error("clear weather contributes nothing")
	}
	for _, w := range []WeatherCondition{WeatherRain, WeatherSnow, WeatherStorm, WeatherHighWind, WeatherFog} {
		inc := w.AdverseIncrement()
		if inc < 0.1 || inc > 0.25 {
			t.Errorf("weather %s increment %v outside [0.1, 0.25]", w, inc)
		}
	}
}
