package reference

import (
	"sort"
	"strings"

	"github.com/health-signal-classifier/internal/domain"
)

// PhoneLocation is the place a phone number prefix is assigned to.
type PhoneLocation struct {
	Prefix string  `json:"prefix" yaml:"prefix"`
	City   string  `json:"city" yaml:"city"`
	State  string  `json:"state" yaml:"state"`
	Lat    float64 `json:"lat" yaml:"lat"`
	Lon    float64 `json:"lon" yaml:"lon"`
}

// Point returns the location as a GeoPoint.
func (p PhoneLocation) Point() domain.GeoPoint {
	return domain.GeoPoint{Lat: p.Lat, Lon: p.Lon}
}

func defaultPhonePrefixes() []PhoneLocation {
	return []PhoneLocation{
		{Prefix: "+91729", City: "Mumbai", State: "Maharashtra", Lat: 19.0760, Lon: 72.8777},
		{Prefix: "+91987", City: "Delhi", State: "Delhi", Lat: 28.6139, Lon: 77.2090},
		{Prefix: "+91876", City: "Bangalore", State: "Karnataka", Lat: 12.9716, Lon: 77.5946},
		{Prefix: "+91765", City: "Chennai", State: "Tamil Nadu", Lat: 13.0827, Lon: 80.2707},
		{Prefix: "+91654", City: "Kolkata", State: "West Bengal", Lat: 22.5726, Lon: 88.3639},
		{Prefix: "+1501", City: "Arkansas", State: "USA", Lat: 34.7465, Lon: -92.2896},
		{Prefix: "+1555", City: "USA", State: "United States", Lat: 39.8283, Lon: -98.5795},
		{Prefix: "+1", City: "USA", State: "United States", Lat: 39.8283, Lon: -98.5795},
		{Prefix: "+44", City: "London", State: "UK", Lat: 51.5074, Lon: -0.1278},
		{Prefix: "+49", City: "Berlin", State: "Germany", Lat: 52.5200, Lon: 13.4050},
	}
}

// sortPrefixes orders prefixes longest first so the first match is the most
// specific one.
func sortPrefixes(prefixes []PhoneLocation) {
	sort.SliceStable(prefixes, func(i, j int) bool {
		return len(prefixes[i].Prefix) > len(prefixes[j].Prefix)
	})
}

// defaultCityCoordinates gives a representative point for each known city.
func defaultCityCoordinates() map[string]domain.GeoPoint {
	return map[string]domain.GeoPoint{
		"mumbai":    {Lat: 19.0760, Lon: 72.8777},
		"delhi":     {Lat: 28.6139, Lon: 77.2090},
		"bangalore": {Lat: 12.9716, Lon: 77.5946},
		"chennai":   {Lat: 13.0827, Lon: 80.2707},
		"kolkata":   {Lat: 22.5726, Lon: 88.3639},
	}
}

// normalizePhone strips separators so "+91 729-999" matches "+91729".
func normalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ScriptRange is a Unicode block that identifies a language.
type ScriptRange struct {
	Language string
	Lo, Hi   rune
}

// Devanagari is listed once. Hindi and Marathi share it and Hindi is reported.
func defaultScripts() []ScriptRange {
	return []ScriptRange{
		{LangHindi, 0x0900, 0x097F},
		{LangBengali, 0x0980, 0x09FF},
		{LangTamil, 0x0B80, 0x0BFF},
		{LangTelugu, 0x0C00, 0x0C7F},
		{LangGujarati, 0x0A80, 0x0AFF},
		{LangKannada, 0x0C80, 0x0CFF},
		{LangMalayalam, 0x0D00, 0x0D7F},
		{LangPunjabi, 0x0A00, 0x0A7F},
	}
}

// romanHindiMarkers are whole words that indicate romanized Hindi.
func defaultRomanHindiMarkers() []string {
	return []string{"bukhar", "dard", "ulti", "khansi", "dast", "kamjori", "sir", "pet"}
}

func defaultAcknowledgements() map[string]string {
	return map[string]string{
		LangEnglish:    "Thank you for your health report. Our system has analyzed your symptoms.",
		LangHindi:      "आपकी स्वास्थ्य रिपोर्ट के लिए धन्यवाद। हमारे सिस्टम ने आपके लक्षणों का विश्लेषण किया है।",
		LangHindiRoman: "Aapki swasthya report ke liye dhanyawad. Hamare system ne aapke lakshano ka vishleshan kiya hai.",
		LangBengali:    "আপনার স্বাস্থ্য রিপোর্টের জন্য ধন্যবাদ। আমাদের সিস্টেম আপনার লক্ষণগুলি বিশ্লেষণ করেছে।",
		LangTamil:      "உங்கள் ஆரோக்கிய அறிக்கைக்கு நன்றி। எங்கள் அமைப்பு உங்கள் அறிகுறிகளை பகுப்பாய்வு செய்துள்ளது।",
		LangTelugu:     "మీ ఆరోగ్య నివేదిక కోసం ధన్యవాదాలు. మా సిస్టమ్ మీ లక్షణాలను విశ్లేషించింది।",
		LangMarathi:    "तुमच्या आरोग्य अहवालाबद्दल धन्यवाद. आमच्या सिस्टमने तुमच्या लक्षणांचे विश्लेषण केले आहे।",
		LangGujarati:   "તમારા સ્વાસ્થ્ય રિપોર્ટ માટે આભાર. અમારી સિસ્ટમે તમારા લક્ષણોનું વિશ્લેષણ કર્યું છે।",
		LangKannada:    "ನಿಮ್ಮ ಆರೋಗ್ಯ ವರದಿಗೆ ಧನ್ಯವಾದಗಳು. ನಮ್ಮ ಸಿಸ್ಟಮ್ ನಿಮ್ಮ ಲಕ್ಷಣಗಳನ್ನು ವಿಶ್ಲೇಷಿಸಿದೆ।",
		LangMalayalam:  "നിങ്ങളുടെ ആരോഗ്യ റിപ്പോർട്ടിനു നന്ദി. ഞങ്ങളുടെ സിസ്റ്റം നിങ്ങളുടെ ലക്ഷണങ്ങൾ വിശകലനം ചെയ്തു।",
		LangPunjabi:    "ਤੁਹਾਡੀ ਸਿਹਤ ਰਿਪੋਰਟ ਲਈ ਧੰਨਵਾਦ। ਸਾਡੇ ਸਿਸਟਮ ਨੇ ਤੁਹਾਡੇ ਲੱਛਣਾਂ ਦਾ ਵਿਸ਼ਲੇਸ਼ਣ ਕੀਤਾ ਹੈ।",
	}
}
