package triage

import "strings"

// Acuity rule evaluation is ordered: the most severe rules run first and the
// first match wins. Thresholds use the exact operators of the triage
// protocol; changing one changes clinical behavior, so keep them verbatim.
// Absent vitals never fire a rule, and complaint matching is plain
// case-insensitive substring search on the raw text.

// Rule names returned by Classify. Stable identifiers, recorded on the
// triage record as the classification rationale.
const (
	RuleRespirationCritical = "respiration_rate_critical"
	RuleOxygenCritical      = "oxygen_saturation_critical"
	RuleHeartRateCritical   = "heart_rate_critical"
	RuleSystolicBPCritical  = "systolic_bp_critical"
	RulePainSevere          = "pain_scale_severe"
	RuleComplaintDyspnea    = "complaint_severe_dyspnea"
	RuleComplaintChestPain  = "complaint_severe_chest_pain"

	RuleRespirationHigh = "respiration_rate_high"
	RuleOxygenLow       = "oxygen_saturation_low"
	RuleHeartRateHigh   = "heart_rate_high"
	RuleFeverHigh       = "temperature_high"
	RulePainHigh        = "pain_scale_high"
	RuleComplaintBleed  = "complaint_bleeding"

	RuleFeverModerate     = "temperature_moderate"
	RulePainModerate      = "pain_scale_moderate"
	RuleComplaintFever    = "complaint_high_fever"

	RulePainMild        = "pain_scale_mild"
	RuleComplaintInjury = "complaint_injury"

	RuleDefault = "default_non_urgent"
)

type acuityRule struct {
	level int
	name  string
	match func(complaint string, v VitalSigns) bool
}

// rules in strict evaluation order, level 1 predicates first.
var rules = []acuityRule{
	// Level 1 — immediate, life-threatening.
	{1, RuleRespirationCritical, func(_ string, v VitalSigns) bool {
		return v.RespirationRate != nil && (*v.RespirationRate > 30 || *v.RespirationRate < 8)
	}},
	{1, RuleOxygenCritical, func(_ string, v VitalSigns) bool {
		return v.OxygenSaturation != nil && *v.OxygenSaturation < 90
	}},
	{1, RuleHeartRateCritical, func(_ string, v VitalSigns) bool {
		return v.HeartRate != nil && (*v.HeartRate > 130 || *v.HeartRate < 40)
	}},
	{1, RuleSystolicBPCritical, func(_ string, v VitalSigns) bool {
		return v.SystolicBP != nil && (*v.SystolicBP > 200 || *v.SystolicBP < 80)
	}},
	{1, RulePainSevere, func(_ string, v VitalSigns) bool {
		return v.PainScale != nil && *v.PainScale >= 9
	}},
	{1, RuleComplaintDyspnea, func(c string, _ VitalSigns) bool {
		return strings.Contains(c, "sesak napas")
	}},
	{1, RuleComplaintChestPain, func(c string, _ VitalSigns) bool {
		return strings.Contains(c, "nyeri dada hebat")
	}},

	// Level 2 — emergent.
	{2, RuleRespirationHigh, func(_ string, v VitalSigns) bool {
		return v.RespirationRate != nil && *v.RespirationRate > 25
	}},
	{2, RuleOxygenLow, func(_ string, v VitalSigns) bool {
		return v.OxygenSaturation != nil && *v.OxygenSaturation < 93
	}},
	{2, RuleHeartRateHigh, func(_ string, v VitalSigns) bool {
		return v.HeartRate != nil && *v.HeartRate > 110
	}},
	{2, RuleFeverHigh, func(_ string, v VitalSigns) bool {
		return v.TemperatureC != nil && *v.TemperatureC > 39
	}},
	{2, RulePainHigh, func(_ string, v VitalSigns) bool {
		return v.PainScale != nil && *v.PainScale >= 7
	}},
	{2, RuleComplaintBleed, func(c string, _ VitalSigns) bool {
		return strings.Contains(c, "pendarahan")
	}},

	// Level 3 — urgent.
	{3, RuleFeverModerate, func(_ string, v VitalSigns) bool {
		return v.TemperatureC != nil && *v.TemperatureC > 38.5
	}},
	{3, RulePainModerate, func(_ string, v VitalSigns) bool {
		return v.PainScale != nil && *v.PainScale >= 5
	}},
	{3, RuleComplaintFever, func(c string, _ VitalSigns) bool {
		return strings.Contains(c, "demam tinggi")
	}},

	// Level 4 — semi-urgent.
	{4, RulePainMild, func(_ string, v VitalSigns) bool {
		return v.PainScale != nil && *v.PainScale >= 3
	}},
	{4, RuleComplaintInjury, func(c string, _ VitalSigns) bool {
		return strings.Contains(c, "cedera")
	}},
}

// Classify maps a chief complaint and validated vitals to an acuity level
// (1 most severe, 5 non-urgent) and the name of the rule that fired.
// It is pure and total: classification never fails for validated input.
func Classify(complaint string, vitals VitalSigns) (int, string) {
	lowered := strings.ToLower(complaint)
	for _, r := range rules {
		if r.match(lowered, vitals) {
			return r.level, r.name
		}
	}
	return 5, RuleDefault
}
