package reference

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/health-signal-classifier/internal/domain"
)

// Overrides is the YAML document accepted by LoadOverrides.
//
//	seasonal:
//	  cholera: [0.1, 0.1, 0.2, 0.3, 0.4, 0.5, 0.5, 0.4, 0.3, 0.2, 0.1, 0.1]
//	keywords:
//	  fever:
//	    - {text: "calentura", language: spanish}
//	phone_prefixes:
//	  - {prefix: "+91900", city: Pune, state: Maharashtra, lat: 18.52, lon: 73.85}
type Overrides struct {
	Seasonal      map[string][]float64 `yaml:"seasonal"`
	Keywords      map[string][]Keyword `yaml:"keywords"`
	PhonePrefixes []PhoneLocation      `yaml:"phone_prefixes"`
}

// LoadOverrides reads a YAML override file and applies it on top of the
// built-in tables. The returned Tables is a fresh value; Default() is never
// modified.
func LoadOverrides(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference overrides: %w", err)
	}

	var ov Overrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("failed to parse reference overrides %s: %w", path, err)
	}

	t := Default()
	if err := t.apply(&ov); err != nil {
		return nil, fmt.Errorf("invalid reference overrides %s: %w", path, err)
	}
	t.finalize()
	return t, nil
}

func (t *Tables) apply(ov *Overrides) error {
	for name, row := range ov.Seasonal {
		d, err := domain.ParseDiagnosis(name)
		if err != nil || !d.IsDisease() {
			return fmt.Errorf("seasonal: unknown disease %q", name)
		}
		if len(row) != 12 {
			return fmt.Errorf("seasonal: %s needs 12 monthly values, got %d", name, len(row))
		}
		var months [12]float64
		for i, v := range row {
			if v < 0 || v > 1 {
				return fmt.Errorf("seasonal: %s month %d out of range: %v", name, i+1, v)
			}
			months[i] = v
		}
		t.Seasonal[d] = months
	}

	for name, words := range ov.Keywords {
		sym := domain.Symptom(name)
		idx := -1
		for i := range t.Symptoms {
			if t.Symptoms[i].Symptom == sym {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("keywords: unknown symptom %q", name)
		}
		for _, w := range words {
			if w.Text == "" {
				return fmt.Errorf("keywords: empty keyword for %s", name)
			}
			if w.Language == "" {
				w.Language = LangEnglish
			}
			t.Symptoms[idx].Keywords = append(t.Symptoms[idx].Keywords, w)
		}
	}

	for _, p := range ov.PhonePrefixes {
		if p.Prefix == "" {
			return fmt.Errorf("phone_prefixes: empty prefix")
		}
		if err := p.Point().Validate(); err != nil {
			return fmt.Errorf("phone_prefixes: %s: %w", p.Prefix, err)
		}
		t.PhonePrefixes = append(t.PhonePrefixes, p)
	}
	return nil
}
