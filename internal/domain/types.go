// Package domain contains the core entities of the health signal classifier:
// diagnoses, symptom mentions, disease signatures, patient and environmental
// context, and the classification record returned to callers.
//
// All enum-like values are closed string types. Anything outside the declared
// constants fails IsValid and must be rejected at the boundary.
package domain

import (
	"errors"
)

// Diagnosis identifies a registered disease or one of the sentinel outcomes of
// a classification call.
type Diagnosis string

const (
	Cholera    Diagnosis = "cholera"
	Typhoid    Diagnosis = "typhoid"
	Malaria    Diagnosis = "malaria"
	Dengue     Diagnosis = "dengue"
	HepatitisA Diagnosis = "hepatitis_a"
	Covid19    Diagnosis = "covid19"

	GeneralIllness          Diagnosis = "general_illness"
	InsufficientInformation Diagnosis = "insufficient_information"
	ClassificationError     Diagnosis = "classification_error"
)

// Progression describes how a symptom is changing over time.
type Progression string

const (
	Improving            Progression = "improving"
	Stable               Progression = "stable"
	Worsening            Progression = "worsening"
	IntermittentProgress Progression = "intermittent"
)

// TemporalPattern describes how a symptom presented.
type TemporalPattern string

const (
	Acute        TemporalPattern = "acute"
	Gradual      TemporalPattern = "gradual"
	Cyclic       TemporalPattern = "cyclic"
	Intermittent TemporalPattern = "intermittent"
)

// SeverityLevel is the overall clinical severity of a message.
type SeverityLevel string

const (
	SeverityLow    SeverityLevel = "Low"
	SeverityMedium SeverityLevel = "Medium"
	SeverityHigh   SeverityLevel = "High"
)

// UrgencyLevel is the caller-facing triage label used to prioritise a
// response. It is distinct from SeverityLevel.
type UrgencyLevel string

const (
	UrgencyLow       UrgencyLevel = "LOW"
	UrgencyModerate  UrgencyLevel = "MODERATE"
	UrgencyUrgent    UrgencyLevel = "URGENT"
	UrgencyImmediate UrgencyLevel = "IMMEDIATE"
)

// Season is a coarse Indian climate season.
type Season string

const (
	Summer      Season = "summer"
	Winter      Season = "winter"
	Monsoon     Season = "monsoon"
	PostMonsoon Season = "post_monsoon"
	Tropical    Season = "tropical"
)

// ContaminationLevel grades industrial sources and bacterial load.
type ContaminationLevel string

const (
	ContaminationLow      ContaminationLevel = "low"
	ContaminationMedium   ContaminationLevel = "medium"
	ContaminationHigh     ContaminationLevel = "high"
	ContaminationCritical ContaminationLevel = "critical"
)

// Validation errors for domain values
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidDiagnosis   = errors.New("invalid diagnosis")
	ErrInvalidUrgency     = errors.New("invalid urgency level")
	ErrInvalidSeverity    = errors.New("invalid severity level")
	ErrInvalidProgression = errors.New("invalid progression")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidRecord      = errors.New("invalid record")
)

// IsValid reports whether d is a registered disease or a sentinel outcome.
func (d Diagnosis) IsValid() bool {
	switch d {
	case Cholera, Typhoid, Malaria, Dengue, HepatitisA, Covid19,
		GeneralIllness, InsufficientInformation, ClassificationError:
		return true
	default:
		return false
	}
}

// IsDisease reports whether d names a registered disease rather than a
// sentinel outcome.
func (d Diagnosis) IsDisease() bool {
	switch d {
	case Cholera, Typhoid, Malaria, Dengue, HepatitisA, Covid19:
		return true
	default:
		return false
	}
}

// IsSentinel reports whether d is one of the non-disease outcomes.
func (d Diagnosis) IsSentinel() bool {
	return d == GeneralIllness || d == InsufficientInformation || d == ClassificationError
}

func (d Diagnosis) String() string {
	return string(d)
}

// ParseDiagnosis converts s into a Diagnosis.
func ParseDiagnosis(s string) (Diagnosis, error) {
	d := Diagnosis(s)
	if !d.IsValid() {
		return "", ErrInvalidDiagnosis
	}
	return d, nil
}

func (p Progression) IsValid() bool {
	switch p {
	case Improving, Stable, Worsening, IntermittentProgress:
		return true
	default:
		return false
	}
}

func (p Progression) String() string {
	return string(p)
}

func (t TemporalPattern) IsValid() bool {
	switch t {
	case Acute, Gradual, Cyclic, Intermittent:
		return true
	default:
		return false
	}
}

func (t TemporalPattern) String() string {
	return string(t)
}

func (s SeverityLevel) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	default:
		return false
	}
}

func (s SeverityLevel) String() string {
	return string(s)
}

func (u UrgencyLevel) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyModerate, UrgencyUrgent, UrgencyImmediate:
		return true
	default:
		return false
	}
}

func (u UrgencyLevel) String() string {
	return string(u)
}

// StepUp raises the urgency by one level for environmental escalation.
// Escalation never reaches IMMEDIATE: LOW becomes MODERATE, MODERATE becomes
// URGENT, and URGENT or IMMEDIATE are returned unchanged.
func (u UrgencyLevel) StepUp() UrgencyLevel {
	switch u {
	case UrgencyLow:
		return UrgencyModerate
	case UrgencyModerate:
		return UrgencyUrgent
	default:
		return u
	}
}

// Rank orders urgency levels from LOW (0) to IMMEDIATE (3). Unknown values
// rank below LOW.
func (u UrgencyLevel) Rank() int {
	switch u {
	case UrgencyLow:
		return 0
	case UrgencyModerate:
		return 1
	case UrgencyUrgent:
		return 2
	case UrgencyImmediate:
		return 3
	default:
		return -1
	}
}

func (s Season) IsValid() bool {
	switch s {
	case Summer, Winter, Monsoon, PostMonsoon, Tropical:
		return true
	default:
		return false
	}
}

func (s Season) String() string {
	return string(s)
}

func (c ContaminationLevel) IsValid() bool {
	switch c {
	case ContaminationLow, ContaminationMedium, ContaminationHigh, ContaminationCritical:
		return true
	default:
		return false
	}
}

func (c ContaminationLevel) String() string {
	return string(c)
}
