package reference

import (
	"regexp"

	"github.com/health-signal-classifier/internal/domain"
)

// IntensityPattern maps an intensity phrase class to a severity.
type IntensityPattern struct {
	Pattern  *regexp.Regexp
	Severity float64
}

// DurationPattern converts a duration phrase into hours. When Multiplier is
// zero the match yields FixedHours, otherwise the first numeric capture group
// is multiplied by Multiplier.
type DurationPattern struct {
	Pattern    *regexp.Regexp
	Multiplier int
	FixedHours int
}

// ProgressionPattern detects how a symptom is evolving.
type ProgressionPattern struct {
	Pattern     *regexp.Regexp
	Progression domain.Progression
}

// TemporalRule detects how a symptom presented.
type TemporalRule struct {
	Pattern  *regexp.Regexp
	Temporal domain.TemporalPattern
}

// DefaultSeverity is used when no intensity class or indicator matches.
const DefaultSeverity = 5.0

// DefaultDurationHours is used when no duration phrase matches.
const DefaultDurationHours = 24

func defaultIntensity() []IntensityPattern {
	return []IntensityPattern{
		{regexp.MustCompile(`\b(very|extremely|severely?)\s+`), 8},
		{regexp.MustCompile(`\b(quite|fairly|moderately?)\s+`), 5},
		{regexp.MustCompile(`\b(slight|slightly|mildly?|a\s+bit)\s+`), 2},
		{regexp.MustCompile(`\b(intense|severe|terrible|unbearable)\b`), 8},
		{regexp.MustCompile(`\b(mild|light|minor)\b`), 2},
	}
}

// Durations are tried in order and the first match wins.
func defaultDurations() []DurationPattern {
	return []DurationPattern{
		{Pattern: regexp.MustCompile(`(\d+)\s+(hour|hr)s?`), Multiplier: 1},
		{Pattern: regexp.MustCompile(`(\d+)\s+(day|dy)s?`), Multiplier: 24},
		{Pattern: regexp.MustCompile(`(\d+)\s+(week|wk)s?`), Multiplier: 168},
		{Pattern: regexp.MustCompile(`since\s+(yesterday|1\s+day)`), FixedHours: 24},
		{Pattern: regexp.MustCompile(`for\s+(\d+)\s+days?`), Multiplier: 24},
		{Pattern: regexp.MustCompile(`last\s+(\d+)\s+days?`), Multiplier: 24},
	}
}

func defaultProgressions() []ProgressionPattern {
	return []ProgressionPattern{
		{regexp.MustCompile(`\b(getting\s+worse|worsening|deteriorating|increasing)\b`), domain.Worsening},
		{regexp.MustCompile(`\b(getting\s+better|improving|recovering|decreasing)\b`), domain.Improving},
		{regexp.MustCompile(`\b(same|stable|unchanged|constant)\b`), domain.Stable},
		{regexp.MustCompile(`\b(comes?\s+and\s+goes?|intermittent|on\s+and\s+off)\b`), domain.IntermittentProgress},
	}
}

func defaultTemporals() []TemporalRule {
	return []TemporalRule{
		{regexp.MustCompile(`\b(sudden|suddenly|all\s+of\s+a\s+sudden|immediate)\b`), domain.Acute},
		{regexp.MustCompile(`\b(gradual|gradually|slow|over\s+time)\b`), domain.Gradual},
		{regexp.MustCompile(`\b(cyclic|cycles?|periodic|comes?\s+and\s+goes?)\b`), domain.Cyclic},
		{regexp.MustCompile(`\b(intermittent|on\s+and\s+off|sometimes)\b`), domain.Intermittent},
	}
}

// AgePattern matches "N years old" and "age N".
var AgePattern = regexp.MustCompile(`(\d+)\s*years?\s*old|age\s*(\d+)`)

// GenderPattern matches gender words on word boundaries so that "female"
// is never read as "male".
var GenderPattern = regexp.MustCompile(`\b(male|female|man|woman|boy|girl)\b`)
