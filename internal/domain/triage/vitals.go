package triage

import "fmt"

// Consciousness is the AVPU-style consciousness scale recorded at triage.
type Consciousness string

const (
	ComposMentis Consciousness = "compos_mentis"
	Apatis       Consciousness = "apatis"
	Somnolen     Consciousness = "somnolen"
	Sopor        Consciousness = "sopor"
	Coma         Consciousness = "coma"
)

// Valid reports whether c is one of the known consciousness levels.
func (c Consciousness) Valid() bool {
	switch c {
	case ComposMentis, Apatis, Somnolen, Sopor, Coma:
		return true
	}
	return false
}

// VitalSigns is the set of measurements captured during an assessment.
// Every field is optional; a nil field means the vital was not measured
// and must be excluded from classification thresholds. It must never be
// coerced to a default that could mask severity.
type VitalSigns struct {
	SystolicBP       *int           `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP      *int           `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	HeartRate        *int           `db:"heart_rate" json:"heart_rate,omitempty"`
	TemperatureC     *float64       `db:"temperature_c" json:"temperature_c,omitempty"`
	RespirationRate  *int           `db:"respiration_rate" json:"respiration_rate,omitempty"`
	OxygenSaturation *int           `db:"oxygen_saturation" json:"oxygen_saturation,omitempty"`
	PainScale        *int           `db:"pain_scale" json:"pain_scale,omitempty"`
	Consciousness    *Consciousness `db:"consciousness" json:"consciousness,omitempty"`
}

// ValidationError reports a rejected assessment input. It is recoverable:
// the caller re-prompts for input and retries.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Empty reports whether no vital was measured at all.
func (v VitalSigns) Empty() bool {
	return v.SystolicBP == nil && v.DiastolicBP == nil && v.HeartRate == nil &&
		v.TemperatureC == nil && v.RespirationRate == nil &&
		v.OxygenSaturation == nil && v.PainScale == nil && v.Consciousness == nil
}

// Validate range-checks the vitals. Classification cannot proceed with zero
// signal, so a fully empty VitalSigns is rejected. Partially populated input
// passes; absent fields stay absent.
func (v VitalSigns) Validate() error {
	if v.Empty() {
		return &ValidationError{Field: "vital_signs", Reason: "no vital sign measured"}
	}
	if v.OxygenSaturation != nil && (*v.OxygenSaturation < 0 || *v.OxygenSaturation > 100) {
		return &ValidationError{Field: "oxygen_saturation", Reason: "must be between 0 and 100"}
	}
	if v.PainScale != nil && (*v.PainScale < 0 || *v.PainScale > 10) {
		return &ValidationError{Field: "pain_scale", Reason: "must be between 0 and 10"}
	}
	if v.SystolicBP != nil && *v.SystolicBP < 0 {
		return &ValidationError{Field: "systolic_bp", Reason: "must not be negative"}
	}
	if v.DiastolicBP != nil && *v.DiastolicBP < 0 {
		return &ValidationError{Field: "diastolic_bp", Reason: "must not be negative"}
	}
	if v.HeartRate != nil && *v.HeartRate < 0 {
		return &ValidationError{Field: "heart_rate", Reason: "must not be negative"}
	}
	if v.TemperatureC != nil && *v.TemperatureC < 0 {
		return &ValidationError{Field: "temperature_c", Reason: "must not be negative"}
	}
	if v.RespirationRate != nil && *v.RespirationRate < 0 {
		return &ValidationError{Field: "respiration_rate", Reason: "must not be negative"}
	}
	if v.Consciousness != nil && !v.Consciousness.Valid() {
		return &ValidationError{Field: "consciousness", Reason: fmt.Sprintf("unknown value %q", *v.Consciousness)}
	}
	return nil
}
