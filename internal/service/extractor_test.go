package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/reference"
)

func mentionOf(mentions []domain.SymptomMention, s domain.Symptom) (domain.SymptomMention, bool) {
	for _, m := range mentions {
		if m.Name == s {
			return m, true
		}
	}
	return domain.SymptomMention{}, false
}

func TestSymptomExtractor_Extract(t *testing.T) {
	extractor := NewSymptomExtractor(reference.Default())

	tests := []struct {
		name     string
		text     string
		want     []domain.Symptom
		severity map[domain.Symptom]float64
	}{
		{
			name: "cholera presentation",
			text: "I have severe watery diarrhea and vomiting since yesterday, feeling very dehydrated",
			want: []domain.Symptom{domain.WateryDiarrhea, domain.Diarrhea, domain.Vomiting, domain.SevereDehydration},
			severity: map[domain.Symptom]float64{
				domain.WateryDiarrhea:    8,
				domain.Vomiting:          8,
				domain.SevereDehydration: 9,
			},
		},
		{
			name:     "slight headache",
			text:     "slight headache",
			want:     []domain.Symptom{domain.Headache},
			severity: map[domain.Symptom]float64{domain.Headache: 2},
		},
		{
			name:     "no intensity uses default",
			text:     "I have a cough",
			want:     []domain.Symptom{domain.Cough},
			severity: map[domain.Symptom]float64{domain.Cough: reference.DefaultSeverity},
		},
		{
			name: "hindi devanagari",
			text: "बुखार",
			want: []domain.Symptom{domain.Fever},
		},
		{
			name: "romanized hindi",
			text: "mujhe bukhar aur sir dard hai",
			want: []domain.Symptom{domain.Fever, domain.Headache},
		},
		{
			name: "mixed case",
			text: "HEADACHE and Nausea",
			want: []domain.Symptom{domain.Nausea, domain.Headache},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mentions := extractor.Extract(tt.text, nil)

			got := make([]domain.Symptom, len(mentions))
			for i, m := range mentions {
				got[i] = m.Name
			}
			assert.ElementsMatch(t, tt.want, got)

			for s, sev := range tt.severity {
				m, ok := mentionOf(mentions, s)
				require.True(t, ok, "missing %s", s)
				assert.Equal(t, sev, m.Severity, "severity of %s", s)
			}
		})
	}
}

func TestSymptomExtractor_TableOrder(t *testing.T) {
	extractor := NewSymptomExtractor(reference.Default())

	mentions := extractor.Extract("headache and watery diarrhea", nil)
	require.Len(t, mentions, 3)
	assert.Equal(t, domain.WateryDiarrhea, mentions[0].Name)
	assert.Equal(t, domain.Diarrhea, mentions[1].Name)
	assert.Equal(t, domain.Headache, mentions[2].Name)
}

func TestSymptomExtractor_NoMatch(t *testing.T) {
	extractor := NewSymptomExtractor(reference.Default())

	for _, text := range []string{"", "   ", "hello there"} {
		mentions := extractor.Extract(text, nil)
		require.Len(t, mentions, 1)
		assert.Equal(t, domain.GeneralIllnessSymptom, mentions[0].Name)
		assert.Equal(t, 0.0, mentions[0].Severity)
		assert.Equal(t, 0.5, mentions[0].Confidence)
	}
}

func TestSymptomExtractor_Features(t *testing.T) {
	extractor := NewSymptomExtractor(reference.Default())

	tests := []struct {
		name        string
		text        string
		duration    int
		progression domain.Progression
		temporal    domain.TemporalPattern
	}{
		{"defaults", "headache", 24, domain.Stable, domain.Acute},
		{"hours", "headache for 6 hours", 6, domain.Stable, domain.Acute},
		{"days", "headache 3 days getting worse", 72, domain.Worsening, domain.Acute},
		{"weeks", "headache 2 weeks, improving", 336, domain.Improving, domain.Acute},
		{"since yesterday", "headache since yesterday", 24, domain.Stable, domain.Acute},
		{"gradual", "headache came on gradually", 24, domain.Stable, domain.Gradual},
		{"comes and goes", "headache comes and goes", 24, domain.IntermittentProgress, domain.Cyclic},
		{"on and off", "headache on and off", 24, domain.IntermittentProgress, domain.Intermittent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mentions := extractor.Extract(tt.text, nil)
			m, ok := mentionOf(mentions, domain.Headache)
			require.True(t, ok)
			assert.Equal(t, tt.duration, m.DurationHours)
			assert.Equal(t, tt.progression, m.Progression)
			assert.Equal(t, tt.temporal, m.TemporalPattern)
		})
	}
}

func TestSymptomExtractor_Confidence(t *testing.T) {
	extractor := NewSymptomExtractor(reference.Default())
	patient := &domain.PatientContext{Age: 30}

	short, _ := mentionOf(extractor.Extract("cough", nil), domain.Cough)
	assert.InDelta(t, 0.8, short.Confidence, 1e-9)

	long, _ := mentionOf(extractor.Extract("shortness of breath", nil), domain.ShortnessBreath)
	assert.InDelta(t, 0.9, long.Confidence, 1e-9)

	withPatient, _ := mentionOf(extractor.Extract("cough", patient), domain.Cough)
	assert.InDelta(t, 0.9, withPatient.Confidence, 1e-9)

	capped, _ := mentionOf(extractor.Extract("shortness of breath", patient), domain.ShortnessBreath)
	assert.InDelta(t, 1.0, capped.Confidence, 1e-9)
}

func TestSymptomExtractor_SeverityBounds(t *testing.T) {
	extractor := NewSymptomExtractor(reference.Default())

	for _, text := range []string{
		"very very extremely severe unbearable rice water stool",
		"mild slight headache",
		"terrible profuse watery diarrhea",
	} {
		for _, m := range extractor.Extract(text, nil) {
			assert.GreaterOrEqual(t, m.Severity, 0.0)
			assert.LessOrEqual(t, m.Severity, 10.0)
		}
	}
}

func TestSymptomExtractor_DetectLanguages(t *testing.T) {
	extractor := NewSymptomExtractor(reference.Default())

	tests := []struct {
		text string
		want []string
	}{
		{"I have a fever", []string{reference.LangEnglish}},
		{"मुझे बुखार है", []string{reference.LangHindi}},
		{"আমার জ্বর", []string{reference.LangBengali}},
		{"mujhe bukhar hai", []string{reference.LangHindiRoman}},
		{"sirdard", []string{reference.LangEnglish}},
		{"காய்ச்சல் and bukhar", []string{reference.LangTamil, reference.LangHindiRoman}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, extractor.DetectLanguages(tt.text))
		})
	}
}

func TestSymptomExtractor_Acknowledge(t *testing.T) {
	extractor := NewSymptomExtractor(reference.Default())

	assert.Contains(t, extractor.Acknowledge(reference.LangEnglish), "Thank you")
	assert.Contains(t, extractor.Acknowledge(reference.LangHindiRoman), "dhanyawad")
}

func TestSymptomExtractor_ExtractDemographics(t *testing.T) {
	extractor := NewSymptomExtractor(reference.Default())

	tests := []struct {
		name   string
		text   string
		age    int
		hasAge bool
		gender string
	}{
		{"years old female", "45 years old female with fever", 45, true, "female"},
		{"age prefix", "Age 7, boy, vomiting", 7, true, "male"},
		{"woman is not man", "a woman with cough", 0, false, "female"},
		{"nothing", "fever", 0, false, ""},
		{"implausible age", "200 years old", 0, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := extractor.ExtractDemographics(tt.text)
			if tt.hasAge {
				require.NotNil(t, d.Age)
				assert.Equal(t, tt.age, *d.Age)
			} else {
				assert.Nil(t, d.Age)
			}
			assert.Equal(t, tt.gender, d.Gender)
		})
	}
}
