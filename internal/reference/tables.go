// Package reference holds the immutable lookup tables of the classifier:
// the symptom taxonomy with its multilingual keywords, disease signatures,
// the seasonal prior matrix, phrase patterns and the per-city environmental
// data. Tables are built once at startup and shared read-only.
package reference

import (
	"strings"
	"time"

	"github.com/health-signal-classifier/internal/domain"
)

// Tables is the complete, read-only reference data set. Callers must not
// mutate any field after construction.
type Tables struct {
	Symptoms         []SymptomEntry
	Signatures       []domain.DiseaseSignature
	Seasonal         map[domain.Diagnosis][12]float64
	CriticalSymptoms []domain.Symptom

	Intensity    []IntensityPattern
	Durations    []DurationPattern
	Progressions []ProgressionPattern
	Temporals    []TemporalRule

	Industries          map[string][]domain.IndustrialSource
	IndustryFallback    []domain.IndustrialSource
	WaterBodies         map[string]domain.WaterBody
	WaterFallback       domain.WaterBody
	AirQuality          map[string]int
	ClimateCorrelations map[domain.Diagnosis]map[string]float64
	CityCoordinates     map[string]domain.GeoPoint

	OutbreakPatterns    []OutbreakPattern
	CityOutbreakFactors map[string][]string
	CoastalCities       map[string]bool
	LocalResponses      []LocalResponse

	PhonePrefixes     []PhoneLocation
	Scripts           []ScriptRange
	RomanHindiMarkers []string
	Acknowledgements  map[string]string

	signatureIndex map[domain.Diagnosis]int
	known          map[domain.Symptom]bool
}

// Default builds the built-in reference tables.
func Default() *Tables {
	t := &Tables{
		Symptoms:            defaultSymptoms(),
		Signatures:          defaultSignatures(),
		Seasonal:            defaultSeasonal(),
		CriticalSymptoms:    defaultCriticalSymptoms,
		Intensity:           defaultIntensity(),
		Durations:           defaultDurations(),
		Progressions:        defaultProgressions(),
		Temporals:           defaultTemporals(),
		Industries:          defaultIndustries(),
		IndustryFallback:    defaultIndustryFallback(),
		WaterBodies:         defaultWaterBodies(),
		WaterFallback:       defaultWaterFallback(),
		AirQuality:          defaultAirQuality(),
		ClimateCorrelations: defaultClimateCorrelations(),
		CityCoordinates:     defaultCityCoordinates(),
		OutbreakPatterns:    defaultOutbreakPatterns(),
		CityOutbreakFactors: defaultCityOutbreakFactors(),
		CoastalCities:       defaultCoastalCities(),
		LocalResponses:      defaultLocalResponses(),
		PhonePrefixes:       defaultPhonePrefixes(),
		Scripts:             defaultScripts(),
		RomanHindiMarkers:   defaultRomanHindiMarkers(),
		Acknowledgements:    defaultAcknowledgements(),
	}
	t.finalize()
	return t
}

// finalize normalizes keyword text and builds the derived indexes. It must
// run after every change to the exported fields during construction.
func (t *Tables) finalize() {
	for i := range t.Symptoms {
		for j := range t.Symptoms[i].Keywords {
			t.Symptoms[i].Keywords[j].Text = Normalize(t.Symptoms[i].Keywords[j].Text)
		}
		for j := range t.Symptoms[i].SeverityIndicators {
			t.Symptoms[i].SeverityIndicators[j].Phrase = Normalize(t.Symptoms[i].SeverityIndicators[j].Phrase)
		}
	}

	t.signatureIndex = make(map[domain.Diagnosis]int, len(t.Signatures))
	t.known = make(map[domain.Symptom]bool)
	for i := range t.Signatures {
		sig := &t.Signatures[i]
		t.signatureIndex[sig.Disease] = i
		for _, s := range sig.ExpectedSymptoms() {
			t.known[s] = true
		}
	}

	sortPrefixes(t.PhonePrefixes)
}

// Diseases returns the registered diseases in registration order.
func (t *Tables) Diseases() []domain.Diagnosis {
	out := make([]domain.Diagnosis, len(t.Signatures))
	for i := range t.Signatures {
		out[i] = t.Signatures[i].Disease
	}
	return out
}

// Signature returns the signature registered for d.
func (t *Tables) Signature(d domain.Diagnosis) (*domain.DiseaseSignature, bool) {
	i, ok := t.signatureIndex[d]
	if !ok {
		return nil, false
	}
	return &t.Signatures[i], true
}

// RegistrationOrder returns the position of d in the registration order, or
// len(Signatures) when d is not registered.
func (t *Tables) RegistrationOrder(d domain.Diagnosis) int {
	if i, ok := t.signatureIndex[d]; ok {
		return i
	}
	return len(t.Signatures)
}

// SeasonalFactor returns the seasonal prior of d in the month of at. Diseases
// without a row get 0.
func (t *Tables) SeasonalFactor(d domain.Diagnosis, at time.Time) float64 {
	row, ok := t.Seasonal[d]
	if !ok {
		return 0
	}
	return row[int(at.Month())-1]
}

// IsKnownSymptom reports whether s appears in any signature's primary or
// secondary list.
func (t *Tables) IsKnownSymptom(s domain.Symptom) bool {
	return t.known[s]
}

// IsCritical reports whether s is one of the high-risk symptoms.
func (t *Tables) IsCritical(s domain.Symptom) bool {
	for _, c := range t.CriticalSymptoms {
		if c == s {
			return true
		}
	}
	return false
}

// LookupPhone returns the location of the longest prefix matching phone.
func (t *Tables) LookupPhone(phone string) (PhoneLocation, bool) {
	p := normalizePhone(phone)
	if p == "" {
		return PhoneLocation{}, false
	}
	for _, loc := range t.PhonePrefixes {
		if strings.HasPrefix(p, loc.Prefix) {
			return loc, true
		}
	}
	return PhoneLocation{}, false
}

// CityPoint returns the representative coordinates of a known city.
func (t *Tables) CityPoint(city string) (domain.GeoPoint, bool) {
	p, ok := t.CityCoordinates[cityKey(city)]
	return p, ok
}

// OutbreakFactorsFor returns the standing environmental problems of city.
func (t *Tables) OutbreakFactorsFor(city string) []string {
	return t.CityOutbreakFactors[cityKey(city)]
}

// IsCoastal reports whether city is on the coast.
func (t *Tables) IsCoastal(city string) bool {
	return t.CoastalCities[cityKey(city)]
}

// LocalResponseFor returns the city-specific additions to the plan for d.
func (t *Tables) LocalResponseFor(city string, d domain.Diagnosis) (LocalResponse, bool) {
	key := cityKey(city)
	for _, r := range t.LocalResponses {
		if r.City == key && r.Disease == d {
			return r, true
		}
	}
	return LocalResponse{}, false
}

// IndustriesFor returns the industrial sources of city or the fallback
// profile.
func (t *Tables) IndustriesFor(city string) []domain.IndustrialSource {
	if list, ok := t.Industries[cityKey(city)]; ok {
		return list
	}
	return t.IndustryFallback
}

// WaterFor returns the base water body of city or the fallback.
func (t *Tables) WaterFor(city string) domain.WaterBody {
	if w, ok := t.WaterBodies[cityKey(city)]; ok {
		return w
	}
	return t.WaterFallback
}

// AirQualityFor returns the air quality index of city.
func (t *Tables) AirQualityFor(city string) int {
	if aqi, ok := t.AirQuality[cityKey(city)]; ok {
		return aqi
	}
	return DefaultAirQualityIndex
}

// Acknowledgement returns the acknowledgement text for language, falling
// back to English.
func (t *Tables) Acknowledgement(language string) string {
	if msg, ok := t.Acknowledgements[language]; ok {
		return msg
	}
	return t.Acknowledgements[LangEnglish]
}

func cityKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
