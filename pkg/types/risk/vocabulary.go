// Package risk defines the shared value types of the ActivSafe risk engine:
// the closed vocabularies (risk levels, factors, activity descriptors) and the
// immutable input/result records exchanged with external collaborators.
//
// All vocabulary tables in this file are process-wide constants initialized
// once at package load.  There is deliberately no runtime registration API:
// a new factor or activity type is a vocabulary change, not configuration.
package risk

// RiskLevel is the ordered classification of assessed risk.
// The total order is low < medium < high < critical.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// riskLevelRank backs the total order over RiskLevel values.
var riskLevelRank = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// Rank returns the position of the level in the total order, or -1 for a
// value outside the vocabulary.
func (l RiskLevel) Rank() int {
	if r, ok := riskLevelRank[l]; ok {
		return r
	}
	return -1
}

// Valid reports whether the level belongs to the vocabulary.
func (l RiskLevel) Valid() bool {
	_, ok := riskLevelRank[l]
	return ok
}

// AtLeast reports whether l is ordered at or above other.
func (l RiskLevel) AtLeast(other RiskLevel) bool {
	return l.Rank() >= other.Rank()
}

// MaxRiskLevel returns the highest of the given levels, or RiskLow when the
// list is empty.
func MaxRiskLevel(levels ...RiskLevel) RiskLevel {
	max := RiskLow
	for _, l := range levels {
		if l.Rank() > max.Rank() {
			max = l
		}
	}
	return max
}

// Intensity is the exertion level of an activity session.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

var intensities = map[Intensity]struct{}{
	IntensityLow:    {},
	IntensityMedium: {},
	IntensityHigh:   {},
}

// Valid reports whether the intensity belongs to the vocabulary.
func (i Intensity) Valid() bool {
	_, ok := intensities[i]
	return ok
}

// ExperienceLevel is a student's proficiency with the activity domain.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

var experienceLevels = map[ExperienceLevel]struct{}{
	ExperienceBeginner:     {},
	ExperienceIntermediate: {},
	ExperienceAdvanced:     {},
}

// Valid reports whether the experience level belongs to the vocabulary.
func (e ExperienceLevel) Valid() bool {
	_, ok := experienceLevels[e]
	return ok
}

// ActivityType identifies a recognized class of physical activity.
type ActivityType string

const (
	ActivityTeamSports       ActivityType = "team_sports"
	ActivityIndividualSports ActivityType = "individual_sports"
	ActivityMartialArts      ActivityType = "martial_arts"
	ActivityGymnastics       ActivityType = "gymnastics"
	ActivitySwimming         ActivityType = "swimming"
	ActivityAthletics        ActivityType = "athletics"
	ActivityDance            ActivityType = "dance"
	ActivityOutdoorAdventure ActivityType = "outdoor_adventure"
	ActivityFitnessTraining  ActivityType = "fitness_training"
)

var activityTypes = map[ActivityType]struct{}{
	ActivityTeamSports:       {},
	ActivityIndividualSports: {},
	ActivityMartialArts:      {},
	ActivityGymnastics:       {},
	ActivitySwimming:         {},
	ActivityAthletics:        {},
	ActivityDance:            {},
	ActivityOutdoorAdventure: {},
	ActivityFitnessTraining:  {},
}

// Valid reports whether the activity type belongs to the vocabulary.
func (a ActivityType) Valid() bool {
	_, ok := activityTypes[a]
	return ok
}

// highImpactActivityTypes are the team/contact classes that carry an inherent
// collision risk regardless of declared contact flags.
var highImpactActivityTypes = map[ActivityType]struct{}{
	ActivityTeamSports:  {},
	ActivityMartialArts: {},
}

// HighImpact reports whether the activity type is a team/contact class.
func (a ActivityType) HighImpact() bool {
	_, ok := highImpactActivityTypes[a]
	return ok
}

// strenuousActivityTypes compound with high intensity: sustained cardio load
// raises the intensity increment for these classes.
var strenuousActivityTypes = map[ActivityType]struct{}{
	ActivityAthletics:  {},
	ActivityGymnastics: {},
	ActivitySwimming:   {},
}

// Strenuous reports whether high intensity compounds for this activity type.
func (a ActivityType) Strenuous() bool {
	_, ok := strenuousActivityTypes[a]
	return ok
}

// FactorCategory is the dimension a risk factor belongs to.
type FactorCategory string

const (
	CategoryEnvironmental FactorCategory = "environmental"
	CategoryStudent       FactorCategory = "student"
	CategoryActivity      FactorCategory = "activity"
	CategoryEquipment     FactorCategory = "equipment"
)

// RiskFactor is a named, closed-vocabulary condition that contributed to a
// risk score.  Factors are immutable identifiers used both for scoring and
// for mitigation-strategy lookup.
type RiskFactor string

// Activity factors.
const (
	FactorHighImpact        RiskFactor = "high_impact"
	FactorHighIntensity     RiskFactor = "high_intensity"
	FactorEquipmentRequired RiskFactor = "equipment_required"
	FactorPhysicalContact   RiskFactor = "physical_contact"
)

// Student factors.
const (
	FactorMedicalCondition      RiskFactor = "medical_condition"
	FactorPreviousInjuryHistory RiskFactor = "previous_injury_history"
	FactorLackOfExperience      RiskFactor = "lack_of_experience"
	FactorAgeRelated            RiskFactor = "age_related"
)

// Environmental factors.
const (
	FactorSlipperySurface    RiskFactor = "slippery_surface"
	FactorPoorLighting       RiskFactor = "poor_lighting"
	FactorExtremeTemperature RiskFactor = "extreme_temperature"
	FactorHighHumidity       RiskFactor = "high_humidity"
	FactorAdverseWeather     RiskFactor = "adverse_weather"
	FactorPoorAirQuality     RiskFactor = "poor_air_quality"
	FactorWetSurface         RiskFactor = "wet_surface"
)

// Equipment factors.
const (
	FactorEquipmentHazard   RiskFactor = "equipment_hazard"
	FactorOverdueInspection RiskFactor = "overdue_inspection"
	FactorEquipmentAge      RiskFactor = "equipment_age"
)

// factorCategories is the authoritative factor → category table.  A factor in
// a DimensionResult must belong to the vocabulary matching that dimension.
var factorCategories = map[RiskFactor]FactorCategory{
	FactorHighImpact:        CategoryActivity,
	FactorHighIntensity:     CategoryActivity,
	FactorEquipmentRequired: CategoryActivity,
	FactorPhysicalContact:   CategoryActivity,

	FactorMedicalCondition:      CategoryStudent,
	FactorPreviousInjuryHistory: CategoryStudent,
	FactorLackOfExperience:      CategoryStudent,
	FactorAgeRelated:            CategoryStudent,

	FactorSlipperySurface:    CategoryEnvironmental,
	FactorPoorLighting:       CategoryEnvironmental,
	FactorExtremeTemperature: CategoryEnvironmental,
	FactorHighHumidity:       CategoryEnvironmental,
	FactorAdverseWeather:     CategoryEnvironmental,
	FactorPoorAirQuality:     CategoryEnvironmental,
	FactorWetSurface:         CategoryEnvironmental,

	FactorEquipmentHazard:   CategoryEquipment,
	FactorOverdueInspection: CategoryEquipment,
	FactorEquipmentAge:      CategoryEquipment,
}

// Valid reports whether the factor belongs to any vocabulary.
func (f RiskFactor) Valid() bool {
	_, ok := factorCategories[f]
	return ok
}

// Category returns the dimension vocabulary the factor belongs to.
// The second return value is false for unrecognized factors.
func (f RiskFactor) Category() (FactorCategory, bool) {
	c, ok := factorCategories[f]
	return c, ok
}

// SurfaceCondition descriptors for environmental input.
type SurfaceCondition string

const (
	SurfaceDry      SurfaceCondition = "dry"
	SurfaceWet      SurfaceCondition = "wet"
	SurfaceSlippery SurfaceCondition = "slippery"
	SurfaceUneven   SurfaceCondition = "uneven"
)

var surfaceConditions = map[SurfaceCondition]struct{}{
	SurfaceDry:      {},
	SurfaceWet:      {},
	SurfaceSlippery: {},
	SurfaceUneven:   {},
}

// Valid reports whether the surface condition belongs to the vocabulary.
func (s SurfaceCondition) Valid() bool {
	_, ok := surfaceConditions[s]
	return ok
}

// LightingCondition descriptors for environmental input.
type LightingCondition string

const (
	LightingGood     LightingCondition = "good"
	LightingAdequate LightingCondition = "adequate"
	LightingPoor     LightingCondition = "poor"
)

var lightingConditions = map[LightingCondition]struct{}{
	LightingGood:     {},
	LightingAdequate: {},
	LightingPoor:     {},
}

// Valid reports whether the lighting condition belongs to the vocabulary.
func (l LightingCondition) Valid() bool {
	_, ok := lightingConditions[l]
	return ok
}

// WeatherCondition descriptors for environmental input.
type WeatherCondition string

const (
	WeatherClear    WeatherCondition = "clear"
	WeatherRain     WeatherCondition = "rain"
	WeatherSnow     WeatherCondition = "snow"
	WeatherStorm    WeatherCondition = "storm"
	WeatherHighWind WeatherCondition = "high_wind"
	WeatherFog      WeatherCondition = "fog"
)

// adverseWeatherIncrement maps adverse weather kinds to their additive score
// contribution.  Clear weather contributes nothing.
var adverseWeatherIncrement = map[WeatherCondition]float64{
	WeatherRain:     0.15,
	WeatherSnow:     0.20,
	WeatherStorm:    0.25,
	WeatherHighWind: 0.10,
	WeatherFog:      0.15,
}

// AdverseIncrement returns the additive score contribution for the weather
// kind, zero when the weather is not adverse.
func (w WeatherCondition) AdverseIncrement() float64 {
	return adverseWeatherIncrement[w]
}

var weatherConditions = map[WeatherCondition]struct{}{
	WeatherClear:    {},
	WeatherRain:     {},
	WeatherSnow:     {},
	WeatherStorm:    {},
	WeatherHighWind: {},
	WeatherFog:      {},
}

// Valid reports whether the weather condition belongs to the vocabulary.
func (w WeatherCondition) Valid() bool {
	_, ok := weatherConditions[w]
	return ok
}

// AirQuality descriptors for environmental input.
type AirQuality string

const (
	AirGood     AirQuality = "good"
	AirModerate AirQuality = "moderate"
	AirPoor     AirQuality = "poor"
)

var airQualities = map[AirQuality]struct{}{
	AirGood:     {},
	AirModerate: {},
	AirPoor:     {},
}

// Valid reports whether the air quality belongs to the vocabulary.
func (a AirQuality) Valid() bool {
	_, ok := airQualities[a]
	return ok
}

// EquipmentCondition descriptors for equipment input.
type EquipmentCondition string

const (
	EquipmentGood    EquipmentCondition = "good"
	EquipmentFair    EquipmentCondition = "fair"
	EquipmentPoor    EquipmentCondition = "poor"
	EquipmentDamaged EquipmentCondition = "damaged"
)

var equipmentConditions = map[EquipmentCondition]struct{}{
	EquipmentGood:    {},
	EquipmentFair:    {},
	EquipmentPoor:    {},
	EquipmentDamaged: {},
}

// Valid reports whether the equipment condition belongs to the vocabulary.
func (e EquipmentCondition) Valid() bool {
	_, ok := equipmentConditions[e]
	return ok
}
