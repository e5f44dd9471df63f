package reference

import (
	"github.com/health-signal-classifier/internal/domain"
)

// Keyword languages
const (
	LangEnglish    = "english"
	LangHindi      = "hindi"
	LangHindiRoman = "hindi_roman"
	LangBengali    = "bengali"
	LangTamil      = "tamil"
	LangTelugu     = "telugu"
	LangMarathi    = "marathi"
	LangGujarati   = "gujarati"
	LangKannada    = "kannada"
	LangMalayalam  = "malayalam"
	LangPunjabi    = "punjabi"
	LangSpanish    = "spanish"
)

// Keyword is one matchable phrase for a symptom.
type Keyword struct {
	Text     string `json:"text" yaml:"text"`
	Language string `json:"language" yaml:"language"`
}

// SeverityIndicator raises a symptom's severity when its phrase occurs
// anywhere in the message.
type SeverityIndicator struct {
	Phrase   string  `json:"phrase" yaml:"phrase"`
	Severity float64 `json:"severity" yaml:"severity"`
}

// SymptomEntry maps keywords to a canonical symptom.
type SymptomEntry struct {
	Symptom            domain.Symptom      `json:"symptom"`
	Keywords           []Keyword           `json:"keywords"`
	SeverityIndicators []SeverityIndicator `json:"severity_indicators"`
}

func en(words ...string) []Keyword { return lang(LangEnglish, words...) }

func lang(language string, words ...string) []Keyword {
	out := make([]Keyword, len(words))
	for i, w := range words {
		out[i] = Keyword{Text: w, Language: language}
	}
	return out
}

func kw(groups ...[]Keyword) []Keyword {
	var out []Keyword
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// defaultSymptoms is the canonical taxonomy in matching order. Regional
// keywords are merged into the closest canonical key.
func defaultSymptoms() []SymptomEntry {
	return []SymptomEntry{
		// Gastrointestinal
		{
			Symptom:            domain.WateryDiarrhea,
			Keywords:           en("watery diarrhea", "watery stool", "liquid stool", "profuse diarrhea"),
			SeverityIndicators: []SeverityIndicator{{"profuse", 9}, {"severe", 8}, {"frequent", 7}, {"watery", 6}},
		},
		{
			Symptom:            domain.RiceWaterStools,
			Keywords:           en("rice water stool", "rice-water", "colorless stool", "odorless diarrhea"),
			SeverityIndicators: []SeverityIndicator{{"rice water", 10}, {"colorless", 8}},
		},
		{
			Symptom: domain.Diarrhea,
			Keywords: kw(
				en("diarrhea", "diarrhoea", "loose stool", "loose motion", "loose bowels"),
				lang(LangHindi, "दस्त", "पेचिश", "पेट खराब"),
				lang(LangHindiRoman, "pechish", "patle dast", "dast lagna", "khooni dast", "pet kharab"),
				lang(LangBengali, "পাতলা পায়খানা", "ডায়রিয়া", "তরল পায়খানা"),
				lang(LangTamil, "வயிற்றுப்போக்கு", "கழிச்சல்"),
				lang(LangTelugu, "విరేచనలు", "నీటిలాంటి మలం"),
				lang(LangMarathi, "जुलाब", "पातळ संडास", "अतिसार"),
				lang(LangGujarati, "ઝાડા", "અતિસાર"),
				lang(LangKannada, "ಅತಿಸಾರ", "ದಸ್ತು"),
				lang(LangMalayalam, "വയറിളക്കം", "അതിസാരം"),
				lang(LangPunjabi, "ਦਸਤ", "ਪਤਲੇ ਦਸਤ"),
			),
			SeverityIndicators: []SeverityIndicator{{"bloody", 8}, {"frequent", 6}, {"loose", 4}},
		},
		{
			Symptom:            domain.Constipation,
			Keywords:           en("constipation", "difficulty passing stool", "hard stool"),
			SeverityIndicators: []SeverityIndicator{{"severe", 6}, {"chronic", 5}},
		},
		{
			Symptom: domain.Vomiting,
			Keywords: kw(
				en("vomiting", "throwing up", "throw up", "vomit", "puke", "retching"),
				lang(LangHindi, "उल्टी", "उबकाई"),
				lang(LangHindiRoman, "ulti ana", "matli ulti"),
				lang(LangSpanish, "vómito"),
				lang(LangBengali, "বমি"),
				lang(LangTamil, "வாந்தி"),
				lang(LangTelugu, "వాంతులు"),
				lang(LangMarathi, "उलट्या", "ओकारणे"),
				lang(LangGujarati, "ઉલટી"),
				lang(LangKannada, "ವಾಂತಿ"),
				lang(LangMalayalam, "ഛര്‍ദ്ദി", "ഛർദ്ദി"),
				lang(LangPunjabi, "ਉਲਟੀ"),
			),
			SeverityIndicators: []SeverityIndicator{{"projectile", 8}, {"continuous", 7}, {"frequent", 6}},
		},
		{
			Symptom: domain.Nausea,
			Keywords: kw(
				en("nausea", "nauseous", "feel sick", "sick feeling", "queasy", "queasiness"),
				lang(LangHindi, "मतली", "जी मिचलाना", "जी घबराना"),
				lang(LangHindiRoman, "matli", "ji michalna", "ji ghabrana"),
				lang(LangSpanish, "náusea"),
				lang(LangBengali, "বমি ভাব"),
				lang(LangTamil, "குமட்டல்"),
				lang(LangTelugu, "వాంతిభావం"),
				lang(LangMarathi, "मळमळ"),
				lang(LangGujarati, "ઉબકાવો"),
				lang(LangKannada, "ವಾಂತಿ ಭಾವ"),
				lang(LangMalayalam, "ഓക്കാനം"),
				lang(LangPunjabi, "ਜੀ ਮਿਚਲਾਣਾ", "ਉਬਕਾਈ"),
			),
			SeverityIndicators: []SeverityIndicator{{"severe", 6}, {"constant", 5}},
		},
		{
			Symptom: domain.AbdominalPain,
			Keywords: kw(
				en("stomach pain", "abdominal pain", "belly pain", "stomach ache", "belly ache", "tummy ache", "gut pain"),
				lang(LangHindi, "पेट दर्द", "पेट में दर्द", "उदर दर्द"),
				lang(LangHindiRoman, "pet dard", "pet me dard", "udar dard"),
				lang(LangBengali, "পেটের ব্যথা", "পেট দুখছে"),
				lang(LangTamil, "வயிற்று வலி", "வயிறு வலி"),
				lang(LangTelugu, "కడుపు నొప్పి", "పొట్ట నొప్పి"),
				lang(LangMarathi, "पोट दुखी", "उदर वेदना"),
				lang(LangGujarati, "પેટમાં દુખાવો", "પેટ દર્દ"),
				lang(LangKannada, "ಹೊಟ್ಟೆ ನೋವು", "ಉದರ ನೋವು"),
				lang(LangMalayalam, "വയർ വേദന", "വയറ്റിൽ വേദന"),
				lang(LangPunjabi, "ਢਿੱਡ ਦਰਦ", "ਪੇਟ ਦਰਦ"),
			),
			SeverityIndicators: []SeverityIndicator{{"severe", 8}, {"cramping", 6}, {"mild", 3}},
		},

		// Fever patterns
		{
			Symptom:            domain.SustainedFever,
			Keywords:           en("continuous fever", "persistent fever", "sustained fever", "high fever for days"),
			SeverityIndicators: []SeverityIndicator{{"high", 8}, {"continuous", 7}, {"persistent", 7}},
		},
		{
			Symptom:            domain.CyclicFever,
			Keywords:           en("fever comes and goes", "intermittent fever", "fever cycles", "periodic fever"),
			SeverityIndicators: []SeverityIndicator{{"high cycles", 8}, {"regular pattern", 6}},
		},
		{
			Symptom: domain.HighFever,
			Keywords: kw(
				en("high fever", "very hot", "burning fever"),
				lang(LangHindi, "तेज़ बुखार", "तेज बुखार"),
				lang(LangHindiRoman, "tez bukhar"),
				lang(LangSpanish, "fiebre alta"),
			),
			SeverityIndicators: []SeverityIndicator{{"very high", 9}, {"burning", 8}, {"high", 7}},
		},
		{
			Symptom: domain.Fever,
			Keywords: kw(
				en("fever", "temperature", "hot", "feverish", "pyrexia"),
				lang(LangHindi, "बुखार", "ज्वर"),
				lang(LangHindiRoman, "bukhar", "jwar"),
				lang(LangSpanish, "fiebre"),
				lang(LangBengali, "জ্বর"),
				lang(LangTamil, "காய்ச்சல்"),
				lang(LangTelugu, "జ్వరం"),
				lang(LangMarathi, "ताप"),
				lang(LangGujarati, "તાવ"),
				lang(LangKannada, "ಜ್ವರ"),
				lang(LangMalayalam, "പനി"),
				lang(LangPunjabi, "ਬੁਖ਼ਾਰ", "ਬੁਖਾਰ"),
			),
			SeverityIndicators: []SeverityIndicator{{"high", 7}, {"moderate", 5}, {"low", 3}},
		},
		{
			Symptom: domain.Chills,
			Keywords: kw(
				en("chills", "shivering", "cold"),
				lang(LangHindi, "ठंड लगना", "कंपकंपी"),
				lang(LangHindiRoman, "kampkampi"),
				lang(LangBengali, "কাঁপুনি"),
				lang(LangTamil, "நடுக்கம்"),
				lang(LangMalayalam, "വിറയൽ"),
				lang(LangPunjabi, "ਕੰਬਣੀ"),
			),
			SeverityIndicators: []SeverityIndicator{{"severe", 7}, {"uncontrollable", 8}},
		},

		// Neurological
		{
			Symptom: domain.Headache,
			Keywords: kw(
				en("headache", "head pain", "head ache", "migraine", "head hurts"),
				lang(LangHindi, "सिर दर्द", "सिरदर्द", "सिर में दर्द"),
				lang(LangHindiRoman, "sir dard", "sirdard", "sir me dard"),
				lang(LangSpanish, "dolor de cabeza"),
				lang(LangBengali, "মাথাব্যথা", "মাথা ব্যথা"),
				lang(LangTamil, "தலைவலி", "தலை வலி"),
				lang(LangTelugu, "తలనొప్పి", "తల నొప్పి"),
				lang(LangMarathi, "डोकेदुखी"),
				lang(LangGujarati, "માથાનો દુખાવો"),
				lang(LangKannada, "ತಲೆನೋವು", "ತಲೆ ನೋವು"),
				lang(LangMalayalam, "തലവേദന", "തല വേദന"),
				lang(LangPunjabi, "ਸਿਰ ਦਰਦ"),
			),
			SeverityIndicators: []SeverityIndicator{{"severe", 8}, {"throbbing", 7}, {"mild", 3}},
		},
		{
			Symptom:            domain.SevereHeadache,
			Keywords:           en("severe headache", "splitting headache", "intense head pain"),
			SeverityIndicators: []SeverityIndicator{{"splitting", 9}, {"severe", 8}, {"intense", 8}},
		},
		{
			Symptom:            domain.EyePain,
			Keywords:           en("eye pain", "pain behind eyes", "eye ache"),
			SeverityIndicators: []SeverityIndicator{{"severe", 7}, {"sharp", 6}},
		},

		// Respiratory
		{
			Symptom:            domain.DryCough,
			Keywords:           kw(en("dry cough", "non-productive cough", "persistent cough"), lang(LangHindi, "सूखी खांसी"), lang(LangHindiRoman, "sukhi khansi")),
			SeverityIndicators: []SeverityIndicator{{"persistent", 6}, {"severe", 7}},
		},
		{
			Symptom: domain.Cough,
			Keywords: kw(
				en("cough", "coughing", "chest congestion"),
				lang(LangHindi, "खांसी", "खाँसी"),
				lang(LangHindiRoman, "khansi"),
				lang(LangSpanish, "tos"),
				lang(LangBengali, "কাশি"),
				lang(LangTamil, "இருமல்"),
				lang(LangTelugu, "దగ్గు"),
				lang(LangMarathi, "खोकला"),
				lang(LangGujarati, "ખાંસી"),
				lang(LangKannada, "ಕೆಮ್ಮು"),
				lang(LangMalayalam, "ചുമ"),
				lang(LangPunjabi, "ਖੰਘ"),
			),
			SeverityIndicators: []SeverityIndicator{{"severe", 6}, {"persistent", 5}, {"mild", 2}},
		},
		{
			Symptom: domain.ShortnessBreath,
			Keywords: kw(
				en("shortness of breath", "difficulty breathing", "breathless", "breathing problem", "hard to breathe", "chest tightness"),
				lang(LangHindi, "सांस लेने में कठिनाई", "सांस फूलना", "दम फूलना"),
				lang(LangHindiRoman, "sans fulna", "dam fulna"),
				lang(LangBengali, "শ্বাসকষ্ট"),
				lang(LangTamil, "மூச்சுத் திணறல்"),
				lang(LangTelugu, "శ్వాస కష్టం"),
				lang(LangMarathi, "धाप लागणे"),
				lang(LangGujarati, "શ્વાસ લેવામાં તકલીફ"),
				lang(LangKannada, "ಉಸಿರಾಟದ ತೊಂದರೆ"),
				lang(LangMalayalam, "ശ്വാസതടസ്സം"),
				lang(LangPunjabi, "ਸਾਹ ਚੜਨਾ"),
			),
			SeverityIndicators: []SeverityIndicator{{"severe", 9}, {"at rest", 8}, {"on exertion", 6}},
		},
		{
			Symptom:            domain.SoreThroat,
			Keywords:           en("sore throat", "throat pain", "difficulty swallowing"),
			SeverityIndicators: []SeverityIndicator{{"severe", 6}, {"difficulty swallowing", 7}},
		},
		{
			Symptom:            domain.ChestPain,
			Keywords:           en("chest pain", "heart pain", "chest ache"),
			SeverityIndicators: []SeverityIndicator{{"crushing", 9}, {"severe", 8}},
		},

		// Systemic
		{
			Symptom: domain.Fatigue,
			Keywords: kw(
				en("fatigue", "tiredness", "weakness", "exhausted", "tired", "weak", "lethargic", "no energy"),
				lang(LangHindi, "कमजोरी", "थकान", "थकावट"),
				lang(LangHindiRoman, "kamjori", "thakan", "thakavat"),
				lang(LangBengali, "দূর্বলতা", "ক্লান্তি"),
				lang(LangTamil, "சோர்வு", "களைப்பு"),
				lang(LangTelugu, "బలహీనత", "అలసట"),
				lang(LangMarathi, "अशक्तपणा", "थकवा"),
				lang(LangGujarati, "નબળાઈ", "થાક"),
				lang(LangKannada, "ಆಯಾಸ"),
				lang(LangMalayalam, "ക്ഷീണം", "തളർച്ച"),
				lang(LangPunjabi, "ਕਮਜ਼ੋਰੀ", "ਥਕਾਵਟ"),
			),
			SeverityIndicators: []SeverityIndicator{{"extreme", 8}, {"severe", 6}, {"mild", 3}},
		},
		{
			Symptom:            domain.MusclePain,
			Keywords:           en("muscle pain", "body aches", "muscle aches", "joint pain"),
			SeverityIndicators: []SeverityIndicator{{"severe", 7}, {"widespread", 6}},
		},
		{
			Symptom:            domain.MuscleCramps,
			Keywords:           en("muscle cramps", "cramping", "muscle spasms"),
			SeverityIndicators: []SeverityIndicator{{"severe", 8}, {"painful", 7}},
		},

		// Specific signs
		{
			Symptom:            domain.Jaundice,
			Keywords:           en("yellow skin", "yellow eyes", "jaundice", "yellowing"),
			SeverityIndicators: []SeverityIndicator{{"deep yellow", 8}, {"yellow", 6}},
		},
		{
			Symptom:            domain.Rash,
			Keywords:           en("rash", "skin rash", "red spots", "skin eruption"),
			SeverityIndicators: []SeverityIndicator{{"widespread", 6}, {"red", 5}},
		},
		{
			Symptom:            domain.RoseSpots,
			Keywords:           en("rose spots", "red spots on chest", "rose-colored rash"),
			SeverityIndicators: []SeverityIndicator{{"rose spots", 8}},
		},
		{
			Symptom:            domain.LossTasteSmell,
			Keywords:           en("loss of taste", "loss of smell", "cannot taste", "cannot smell"),
			SeverityIndicators: []SeverityIndicator{{"complete loss", 8}, {"partial loss", 6}},
		},
		{
			Symptom:            domain.LossAppetite,
			Keywords:           en("loss of appetite", "not hungry", "no appetite"),
			SeverityIndicators: []SeverityIndicator{{"complete loss", 6}, {"poor appetite", 4}},
		},

		// Dehydration signs
		{
			Symptom:            domain.SevereDehydration,
			Keywords:           en("severe dehydration", "very dehydrated", "sunken eyes", "dry mouth"),
			SeverityIndicators: []SeverityIndicator{{"severe", 9}, {"sunken eyes", 8}, {"dry skin", 6}},
		},
		{
			Symptom:            domain.RapidFluidLoss,
			Keywords:           en("losing fluids quickly", "rapid dehydration", "fluid loss"),
			SeverityIndicators: []SeverityIndicator{{"rapid", 8}, {"continuous", 7}},
		},

		// Bleeding
		{
			Symptom:            domain.Bleeding,
			Keywords:           en("bleeding", "blood", "hemorrhage", "nosebleed"),
			SeverityIndicators: []SeverityIndicator{{"heavy", 9}, {"continuous", 8}, {"minor", 4}},
		},
		{
			Symptom:            domain.DarkUrine,
			Keywords:           en("dark urine", "tea-colored urine", "brown urine"),
			SeverityIndicators: []SeverityIndicator{{"very dark", 7}, {"tea colored", 6}},
		},
		{
			Symptom:            domain.PaleStool,
			Keywords:           en("pale stool", "clay-colored stool", "white stool"),
			SeverityIndicators: []SeverityIndicator{{"very pale", 7}, {"clay colored", 6}},
		},
	}
}
