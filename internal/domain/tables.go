package domain

import "sort"

// Range is an inclusive numeric range used by the vital and lab tables.
type Range struct {
	Min float64
	Max float64
}

// VitalRanges holds the disease-specific sampling ranges for blood pressure
// and heart rate.
type VitalRanges struct {
	Systolic  Range
	Diastolic Range
	HeartRate Range
}

// ProbabilityTables is the static configuration the generator samples from.
// The four disease-keyed tables must cover the same disease set; the risk
// factor priors are disease-independent.
type ProbabilityTables struct {
	DiseasePriors map[Disease]float64
	Symptoms      map[Disease]map[string]float64
	Vitals        map[Disease]VitalRanges
	Labs          map[Disease]map[string]Range
	RiskFactors   map[string]float64
}

// DefaultTables returns the built-in probability tables for the three
// supported diseases.
func DefaultTables() *ProbabilityTables {
	return &ProbabilityTables{
		DiseasePriors: map[Disease]float64{
			Diabetes:      0.35,
			HeartDisease:  0.35,
			KidneyDisease: 0.30,
		},
		Symptoms: map[Disease]map[string]float64{
			Diabetes: {
				"frequent_urination":  0.7,
				"excessive_thirst":    0.8,
				"fatigue":             0.6,
				"blurred_vision":      0.5,
				"slow_healing_wounds": 0.4,
			},
			HeartDisease: {
				"chest_pain":          0.75,
				"shortness_of_breath": 0.65,
				"fatigue":             0.5,
				"dizziness":           0.4,
				"swelling_in_legs":    0.3,
			},
			KidneyDisease: {
				"swelling_ankles":             0.7,
				"frequent_urination_at_night": 0.6,
				"back_pain":                   0.55,
				"nausea":                      0.4,
				"foam_in_urine":               0.35,
			},
		},
		Vitals: map[Disease]VitalRanges{
			Diabetes: {
				Systolic:  Range{120, 150},
				Diastolic: Range{80, 95},
				HeartRate: Range{70, 100},
			},
			HeartDisease: {
				Systolic:  Range{130, 180},
				Diastolic: Range{85, 110},
				HeartRate: Range{80, 120},
			},
			KidneyDisease: {
				Systolic:  Range{130, 170},
				Diastolic: Range{85, 105},
				HeartRate: Range{75, 110},
			},
		},
		Labs: map[Disease]map[string]Range{
			Diabetes: {
				"blood_glucose": {140, 350},
				"hbA1c":         {6.5, 12.0},
				"cholesterol":   {160, 250},
			},
			HeartDisease: {
				"cholesterol":   {200, 350},
				"blood_glucose": {90, 150},
				"creatinine":    {0.6, 1.3},
			},
			KidneyDisease: {
				"creatinine":    {1.5, 8.0},
				"urea":          {50, 180},
				"blood_glucose": {80, 150},
			},
		},
		RiskFactors: map[string]float64{
			"smoking":             0.3,
			"family_history":      0.4,
			"obesity":             0.35,
			"alcohol":             0.25,
			"physical_inactivity": 0.45,
		},
	}
}

// Validate checks that every supported disease is present in all four
// disease-keyed tables and that the configuration is usable. Called once at
// startup so a malformed table fails fast instead of mid-simulation.
func (t *ProbabilityTables) Validate() error {
	totalWeight := 0.0
	for _, d := range Diseases() {
		w, ok := t.DiseasePriors[d]
		if !ok {
			return NewConfigurationError("disease_priors", string(d), "disease missing from prior table")
		}
		if w < 0 {
			return NewConfigurationError("disease_priors", string(d), "negative prior weight")
		}
		totalWeight += w

		if len(t.Symptoms[d]) == 0 {
			return NewConfigurationError("symptoms", string(d), "no symptom probabilities defined")
		}
		for name, p := range t.Symptoms[d] {
			if p < 0 || p > 1 {
				return NewConfigurationError("symptoms", string(d), "probability out of [0,1] for "+name)
			}
		}

		vr, ok := t.Vitals[d]
		if !ok {
			return NewConfigurationError("vital_ranges", string(d), "disease missing from vital range table")
		}
		for _, r := range []Range{vr.Systolic, vr.Diastolic, vr.HeartRate} {
			if r.Min > r.Max {
				return NewConfigurationError("vital_ranges", string(d), "inverted range")
			}
		}

		labs, ok := t.Labs[d]
		if !ok || len(labs) == 0 {
			return NewConfigurationError("lab_ranges", string(d), "no lab ranges defined")
		}
		for name, r := range labs {
			if r.Min > r.Max {
				return NewConfigurationError("lab_ranges", string(d), "inverted range for "+name)
			}
		}
	}

	if totalWeight == 0 {
		return NewConfigurationError("disease_priors", "", "all prior weights are zero")
	}

	if len(t.RiskFactors) == 0 {
		return NewConfigurationError("risk_factors", "", "no risk factor priors defined")
	}
	for name, p := range t.RiskFactors {
		if p < 0 || p > 1 {
			return NewConfigurationError("risk_factors", "", "probability out of [0,1] for "+name)
		}
	}

	return nil
}

// RiskFactorNames returns the risk factor names in a stable sorted order so
// draws consume the random source deterministically.
func (t *ProbabilityTables) RiskFactorNames() []string {
	return sortedKeys(t.RiskFactors)
}

// SymptomNames returns the symptom names for a disease in sorted order.
func (t *ProbabilityTables) SymptomNames(d Disease) []string {
	return sortedKeys(t.Symptoms[d])
}

// LabNames returns the lab parameter names for a disease in sorted order.
func (t *ProbabilityTables) LabNames(d Disease) []string {
	return sortedKeys(t.Labs[d])
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
