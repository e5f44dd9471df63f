package service

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/reference"
)

const (
	baseConfidence      = 0.8
	longKeywordBonus    = 0.9
	longKeywordRunes    = 10
	patientContextBonus = 0.1
	maxSeverity         = 10.0
)

// SymptomExtractor turns free text into symptom mentions using the keyword
// table of the reference data.
type SymptomExtractor struct {
	tables *reference.Tables
}

// NewSymptomExtractor creates an extractor over tables.
func NewSymptomExtractor(tables *reference.Tables) *SymptomExtractor {
	return &SymptomExtractor{tables: tables}
}

// Extract returns one mention per matched symptom in table order. When
// nothing matches, a single general_illness mention is returned.
func (e *SymptomExtractor) Extract(text string, patient *domain.PatientContext) []domain.SymptomMention {
	normalized := reference.Normalize(text)

	var mentions []domain.SymptomMention
	if strings.TrimSpace(normalized) != "" {
		// Phrase-level features are shared by every mention of the message.
		intensity, hasIntensity := e.intensity(normalized)
		duration := e.duration(normalized)
		progression := e.progression(normalized)
		temporal := e.temporal(normalized)

		seen := make(map[domain.Symptom]bool)
		for i := range e.tables.Symptoms {
			entry := &e.tables.Symptoms[i]
			if seen[entry.Symptom] {
				continue
			}
			keyword, ok := firstKeyword(normalized, entry.Keywords)
			if !ok {
				continue
			}
			seen[entry.Symptom] = true

			mentions = append(mentions, domain.SymptomMention{
				Name:            entry.Symptom,
				Severity:        severityFor(normalized, entry.SeverityIndicators, intensity, hasIntensity),
				DurationHours:   duration,
				Progression:     progression,
				Confidence:      keywordConfidence(keyword.Text, patient != nil),
				TemporalPattern: temporal,
				MatchedKeyword:  keyword.Text,
				Language:        keyword.Language,
			})
		}
	}

	if len(mentions) == 0 {
		return []domain.SymptomMention{generalIllness()}
	}
	return mentions
}

func generalIllness() domain.SymptomMention {
	return domain.SymptomMention{
		Name:            domain.GeneralIllnessSymptom,
		Severity:        0,
		DurationHours:   reference.DefaultDurationHours,
		Progression:     domain.Stable,
		Confidence:      0.5,
		TemporalPattern: domain.Acute,
		Language:        reference.LangEnglish,
	}
}

func firstKeyword(text string, keywords []reference.Keyword) (reference.Keyword, bool) {
	for _, k := range keywords {
		if k.Text != "" && strings.Contains(text, k.Text) {
			return k, true
		}
	}
	return reference.Keyword{}, false
}

func keywordConfidence(keyword string, hasPatient bool) float64 {
	c := baseConfidence
	if utf8.RuneCountInString(keyword) > longKeywordRunes {
		c = longKeywordBonus
	}
	if hasPatient {
		c += patientContextBonus
	}
	return math.Min(c, 1.0)
}

// intensity returns the highest intensity class found in text.
func (e *SymptomExtractor) intensity(text string) (float64, bool) {
	best, found := 0.0, false
	for _, p := range e.tables.Intensity {
		if p.Pattern.MatchString(text) {
			if !found || p.Severity > best {
				best = p.Severity
			}
			found = true
		}
	}
	return best, found
}

// severityFor combines the message intensity with the symptom's own
// indicator phrases. Without either, the default severity applies.
func severityFor(text string, indicators []reference.SeverityIndicator, intensity float64, hasIntensity bool) float64 {
	severity, found := intensity, hasIntensity
	for _, ind := range indicators {
		if ind.Phrase == "" || !strings.Contains(text, ind.Phrase) {
			continue
		}
		if !found || ind.Severity > severity {
			severity = ind.Severity
		}
		found = true
	}
	if !found {
		return reference.DefaultSeverity
	}
	return math.Min(severity, maxSeverity)
}

func (e *SymptomExtractor) duration(text string) int {
	for _, p := range e.tables.Durations {
		m := p.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if p.Multiplier == 0 {
			return p.FixedHours
		}
		if len(m) < 2 {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return n * p.Multiplier
	}
	return reference.DefaultDurationHours
}

func (e *SymptomExtractor) progression(text string) domain.Progression {
	for _, p := range e.tables.Progressions {
		if p.Pattern.MatchString(text) {
			return p.Progression
		}
	}
	return domain.Stable
}

func (e *SymptomExtractor) temporal(text string) domain.TemporalPattern {
	for _, p := range e.tables.Temporals {
		if p.Pattern.MatchString(text) {
			return p.Temporal
		}
	}
	return domain.Acute
}

// DetectLanguages reports the languages present in text. Native scripts come
// first in script table order, followed by romanized Hindi. Text without
// either is reported as English.
func (e *SymptomExtractor) DetectLanguages(text string) []string {
	var langs []string
	added := make(map[string]bool)
	add := func(l string) {
		if !added[l] {
			added[l] = true
			langs = append(langs, l)
		}
	}

	present := make(map[string]bool)
	for _, r := range text {
		for _, s := range e.tables.Scripts {
			if r >= s.Lo && r <= s.Hi {
				present[s.Language] = true
				break
			}
		}
	}
	for _, s := range e.tables.Scripts {
		if present[s.Language] {
			add(s.Language)
		}
	}

	words := strings.FieldsFunc(reference.Normalize(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	markers := make(map[string]bool, len(e.tables.RomanHindiMarkers))
	for _, m := range e.tables.RomanHindiMarkers {
		markers[m] = true
	}
	for _, w := range words {
		if markers[w] {
			add(reference.LangHindiRoman)
			break
		}
	}

	if len(langs) == 0 {
		add(reference.LangEnglish)
	}
	return langs
}

// PrimaryLanguage returns the first detected language of text.
func (e *SymptomExtractor) PrimaryLanguage(text string) string {
	return e.DetectLanguages(text)[0]
}

// Acknowledge returns the acknowledgement message for language.
func (e *SymptomExtractor) Acknowledge(language string) string {
	return e.tables.Acknowledgement(language)
}

// Demographics holds what could be read about the sender from the text.
type Demographics struct {
	Age    *int
	Gender string
}

// ExtractDemographics reads an age ("45 years old", "age 45") and a gender
// word from text.
func (e *SymptomExtractor) ExtractDemographics(text string) Demographics {
	var d Demographics
	lower := strings.ToLower(text)

	if m := reference.AgePattern.FindStringSubmatch(lower); m != nil {
		for _, g := range m[1:] {
			if g == "" {
				continue
			}
			if age, err := strconv.Atoi(g); err == nil && age >= 0 && age <= 130 {
				d.Age = &age
			}
			break
		}
	}

	if m := reference.GenderPattern.FindStringSubmatch(lower); m != nil {
		switch m[1] {
		case "male", "man", "boy":
			d.Gender = "male"
		case "female", "woman", "girl":
			d.Gender = "female"
		}
	}
	return d
}
