// Package compatibility computes pairwise compatibility scores and profile
// completeness from personality questionnaire data. Everything here is pure:
// no I/O, no shared state, safe for concurrent use.
package compatibility

import (
	"math"

	"github.com/heartline/heartline/backend/internal/models"
)

// Sub-score weights. They sum to 1.
const (
	PersonalityWeight = 0.40
	LifestyleWeight   = 0.35
	DealBreakerWeight = 0.25
)

const (
	relationshipTypePenalty = 30
	frequencyStepPenalty    = 10
	budgetStepPenalty       = 15
	travelPenalty           = 20
)

// Ordered scales used to weigh how far apart two answers are.
var (
	frequencyScale = []string{"occasional", "monthly", "weekly", "daily"}
	budgetScale    = []string{"low", "medium", "high", "luxury"}
)

// Input is the subset of a personality profile the scorer reads.
type Input struct {
	Traits       models.PersonalityTraits
	Lifestyle    models.LifestylePreferences
	DealBreakers models.DealBreakers
}

// InputFromProfile extracts scorer input from a stored profile.
func InputFromProfile(p *models.PersonalityProfile) Input {
	if p == nil {
		return Input{}
	}
	return Input{
		Traits:       p.PersonalityTraits.Data(),
		Lifestyle:    p.LifestylePrefs.Data(),
		DealBreakers: p.DealBreakers.Data(),
	}
}

// Breakdown holds the three sub-scores, each in [0,100].
type Breakdown struct {
	Personality float64 `json:"personality"`
	Lifestyle   float64 `json:"lifestyle"`
	DealBreaker float64 `json:"deal_breaker"`
}

// Result is a final score plus the sub-scores it was built from.
type Result struct {
	Score     int       `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// Score returns the compatibility of a with b in [0,100].
//
// The result is not symmetric: religion, politics, children and marriage
// deal-breakers are read from a only.
func Score(a, b Input) int {
	return Evaluate(a, b).Score
}

// Evaluate computes the final score and its breakdown.
func Evaluate(a, b Input) Result {
	bd := Breakdown{
		Personality: PersonalityScore(a.Traits, b.Traits),
		Lifestyle:   LifestyleScore(a.Lifestyle, b.Lifestyle),
	}
	if DealBreakersPass(a, b) {
		bd.DealBreaker = 100
	}

	total := bd.Personality*PersonalityWeight + bd.Lifestyle*LifestyleWeight + bd.DealBreaker*DealBreakerWeight
	return Result{Score: clampScore(int(math.Round(total))), Breakdown: bd}
}

// PersonalityScore is 100 minus the mean absolute difference over openness,
// conscientiousness, extraversion and agreeableness. Neuroticism is not compared.
func PersonalityScore(a, b models.PersonalityTraits) float64 {
	diffs := []float64{
		absDiff(a.Openness, b.Openness),
		absDiff(a.Conscientiousness, b.Conscientiousness),
		absDiff(a.Extraversion, b.Extraversion),
		absDiff(a.Agreeableness, b.Agreeableness),
	}
	var sum float64
	for _, d := range diffs {
		sum += d
	}
	return math.Max(0, 100-sum/float64(len(diffs)))
}

// LifestyleScore starts at 100 and subtracts a penalty per mismatched field.
func LifestyleScore(a, b models.LifestylePreferences) float64 {
	score := 100.0

	if a.RelationshipType != b.RelationshipType {
		score -= relationshipTypePenalty
	}
	if a.Frequency != b.Frequency {
		score -= frequencyStepPenalty * scaleDistance(frequencyScale, a.Frequency, b.Frequency)
	}
	if a.Budget != b.Budget {
		score -= budgetStepPenalty * scaleDistance(budgetScale, a.Budget, b.Budget)
	}
	if a.Travel != b.Travel {
		score -= travelPenalty
	}

	return math.Max(0, score)
}

// DealBreakersPass reports whether no declared deal-breaker of a is violated.
//
// Smoking, drinking and drugs fail only when both sides flag the same
// behaviour; neither side's actual habits are consulted. This mirrors the
// long-standing production rule and is kept as-is until product decides otherwise.
func DealBreakersPass(a, b Input) bool {
	da, db := a.DealBreakers, b.DealBreakers

	if isSet(da.Smoking) && isSet(db.Smoking) {
		return false
	}
	if isSet(da.Drinking) && isSet(db.Drinking) {
		return false
	}
	if isSet(da.Drugs) && isSet(db.Drugs) {
		return false
	}

	if da.Religion == models.SensitivitySame && a.Lifestyle.Religion != b.Lifestyle.Religion {
		return false
	}
	if da.Politics == models.SensitivitySame && a.Lifestyle.Politics != b.Lifestyle.Politics {
		return false
	}

	if constrains(da.Children) && da.Children != db.Children {
		return false
	}
	if constrains(da.Marriage) && da.Marriage != db.Marriage {
		return false
	}

	return true
}

// constrains reports whether a sensitivity value expresses a requirement.
// An unanswered field is treated like not_important.
func constrains(v string) bool {
	return v != "" && v != models.SensitivityNotImportant
}

func isSet(b *bool) bool {
	return b != nil && *b
}

func absDiff(a, b *int) float64 {
	return math.Abs(float64(intOrZero(a) - intOrZero(b)))
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// scaleDistance returns the index distance of two values on an ordered scale.
// Unknown or empty values sit just below the first step.
func scaleDistance(scale []string, a, b string) float64 {
	return math.Abs(float64(scaleIndex(scale, a) - scaleIndex(scale, b)))
}

func scaleIndex(scale []string, v string) int {
	for i, s := range scale {
		if s == v {
			return i
		}
	}
	return -1
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
