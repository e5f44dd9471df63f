package domain

// Symptom is a canonical symptom or clinical finding key.
type Symptom string

// Symptoms that can be extracted from free text.
const (
	WateryDiarrhea    Symptom = "watery_diarrhea"
	RiceWaterStools   Symptom = "rice_water_stools"
	Diarrhea          Symptom = "diarrhea"
	Constipation      Symptom = "constipation"
	Vomiting          Symptom = "vomiting"
	Nausea            Symptom = "nausea"
	AbdominalPain     Symptom = "abdominal_pain"
	SustainedFever    Symptom = "sustained_fever"
	CyclicFever       Symptom = "cyclic_fever"
	HighFever         Symptom = "high_fever"
	Fever             Symptom = "fever"
	Chills            Symptom = "chills"
	Headache          Symptom = "headache"
	SevereHeadache    Symptom = "severe_headache"
	EyePain           Symptom = "eye_pain"
	DryCough          Symptom = "dry_cough"
	Cough             Symptom = "cough"
	ShortnessBreath   Symptom = "shortness_breath"
	SoreThroat        Symptom = "sore_throat"
	ChestPain         Symptom = "chest_pain"
	Fatigue           Symptom = "fatigue"
	MusclePain        Symptom = "muscle_pain"
	MuscleCramps      Symptom = "muscle_cramps"
	Jaundice          Symptom = "jaundice"
	Rash              Symptom = "rash"
	RoseSpots         Symptom = "rose_spots"
	LossTasteSmell    Symptom = "loss_taste_smell"
	LossAppetite      Symptom = "loss_appetite"
	SevereDehydration Symptom = "severe_dehydration"
	RapidFluidLoss    Symptom = "rapid_fluid_loss"
	Bleeding          Symptom = "bleeding"
	DarkUrine         Symptom = "dark_urine"
	PaleStool         Symptom = "pale_stool"

	// GeneralIllnessSymptom is the placeholder mention produced when no
	// keyword matches.
	GeneralIllnessSymptom Symptom = "general_illness"
)

// Findings that only appear in disease signatures. They are never extracted
// from text but still participate in signature matching.
const (
	Sweats                 Symptom = "sweats"
	MuscleAches            Symptom = "muscle_aches"
	BodyAches              Symptom = "body_aches"
	LowFever               Symptom = "low_fever"
	SunkenEyes             Symptom = "sunken_eyes"
	StepLadderFever        Symptom = "step_ladder_fever"
	ContinuousFever        Symptom = "continuous_fever"
	SpleenEnlargement      Symptom = "spleen_enlargement"
	Anemia                 Symptom = "anemia"
	RespiratorySymptoms    Symptom = "respiratory_symptoms"
	PlateletDrop           Symptom = "platelet_drop"
	TourniquetTestPositive Symptom = "tourniquet_test_positive"
	EnlargedLiver          Symptom = "enlarged_liver"
	GroundGlassOpacity     Symptom = "ground_glass_opacity"
)

// IsValid reports whether s is a declared symptom or finding key.
func (s Symptom) IsValid() bool {
	switch s {
	case WateryDiarrhea, RiceWaterStools, Diarrhea, Constipation, Vomiting, Nausea,
		AbdominalPain, SustainedFever, CyclicFever, HighFever, Fever, Chills,
		Headache, SevereHeadache, EyePain, DryCough, Cough, ShortnessBreath,
		SoreThroat, ChestPain, Fatigue, MusclePain, MuscleCramps, Jaundice, Rash,
		RoseSpots, LossTasteSmell, LossAppetite, SevereDehydration, RapidFluidLoss,
		Bleeding, DarkUrine, PaleStool, GeneralIllnessSymptom:
		return true
	case Sweats, MuscleAches, BodyAches, LowFever, SunkenEyes, StepLadderFever,
		ContinuousFever, SpleenEnlargement, Anemia, RespiratorySymptoms,
		PlateletDrop, TourniquetTestPositive, EnlargedLiver, GroundGlassOpacity:
		return true
	default:
		return false
	}
}

func (s Symptom) String() string {
	return string(s)
}

// SymptomMention is one detected symptom occurrence in a message.
type SymptomMention struct {
	Name            Symptom         `json:"name"`
	Severity        float64         `json:"severity"`
	DurationHours   int             `json:"duration_hours"`
	Progression     Progression     `json:"progression"`
	Confidence      float64         `json:"confidence"`
	TemporalPattern TemporalPattern `json:"temporal_pattern"`
	MatchedKeyword  string          `json:"matched_keyword,omitempty"`
	Language        string          `json:"language,omitempty"`
}

// SymptomSet returns the mention keys as a set.
func SymptomSet(mentions []SymptomMention) map[Symptom]bool {
	set := make(map[Symptom]bool, len(mentions))
	for _, m := range mentions {
		set[m.Name] = true
	}
	return set
}

// OnlyGeneralIllness reports whether mentions carry no specific symptom.
func OnlyGeneralIllness(mentions []SymptomMention) bool {
	for _, m := range mentions {
		if m.Name != GeneralIllnessSymptom {
			return false
		}
	}
	return true
}
