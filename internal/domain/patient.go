package domain

import "time"

// Disease identifies one of the three conditions the simulator predicts.
type Disease string

const (
	Diabetes      Disease = "diabetes"
	HeartDisease  Disease = "heart_disease"
	KidneyDisease Disease = "kidney_disease"
)

// Diseases lists every supported disease in a stable order. Adapters,
// the registry, and the orchestrator all iterate in this order.
func Diseases() []Disease {
	return []Disease{Diabetes, HeartDisease, KidneyDisease}
}

// Demographics holds the sampled demographic block of a patient record.
// BMI is always derived from height and weight, never sampled.
type Demographics struct {
	Age      int     `json:"age"`
	Gender   string  `json:"gender"`
	HeightCm int     `json:"height_cm"`
	WeightKg int     `json:"weight_kg"`
	BMI      float64 `json:"bmi"`
}

// Vitals holds the sampled vital signs. Blood pressure and heart rate come
// from disease-specific ranges; respiratory rate and temperature use fixed
// disease-independent ranges.
type Vitals struct {
	BloodPressureSystolic  int     `json:"blood_pressure_systolic"`
	BloodPressureDiastolic int     `json:"blood_pressure_diastolic"`
	HeartRate              int     `json:"heart_rate"`
	RespiratoryRate        int     `json:"respiratory_rate"`
	TemperatureC           float64 `json:"temperature_c"`
}

// PatientRecord is a complete synthetic patient. Records are immutable once
// generated; only the labs defined for the ground-truth disease are present
// in LabValues, everything else is absent and defaulted by the adapters.
type PatientRecord struct {
	PatientID      string             `json:"patient_id"`
	Demographics   Demographics       `json:"demographics"`
	Symptoms       []string           `json:"symptoms"`
	Vitals         Vitals             `json:"vitals"`
	LabValues      map[string]float64 `json:"lab_values"`
	RiskFactors    map[string]bool    `json:"risk_factors"`
	ImageReference string             `json:"synthetic_image_reference,omitempty"`
	GroundTruth    Disease            `json:"ground_truth_diagnosis"`
}

// Risk returns 1 when the named risk factor is set, 0 otherwise.
func (p *PatientRecord) Risk(name string) float64 {
	if p.RiskFactors[name] {
		return 1
	}
	return 0
}

// Prediction is the result of running one disease model against a patient.
type Prediction struct {
	PredLabel   int     `json:"pred_label"`
	Probability float64 `json:"probability"`
	ModelPath   string  `json:"model_path"`
}

// RunOutcome classifies how a single simulation run terminated.
type RunOutcome string

const (
	// RunCompleted means generation, all three predictions, and scoring succeeded.
	RunCompleted RunOutcome = "completed"
	// RunPartialFailure means at least one disease prediction failed while
	// the others succeeded.
	RunPartialFailure RunOutcome = "partial_failure"
	// RunFailed means patient generation itself failed.
	RunFailed RunOutcome = "failed"
)

// SimulationRecord captures one full generate → predict → score run. It is
// written to durable storage exactly once and never mutated afterwards.
type SimulationRecord struct {
	Patient     *PatientRecord         `json:"patient"`
	Predictions map[Disease]Prediction `json:"predictions"`
	Correctness map[Disease]bool       `json:"correctness"`
	Outcome     RunOutcome             `json:"outcome"`
	Errors      map[Disease]string     `json:"errors,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`

	// Unpersisted is set when the record could not be written to the store.
	// The result is still returned to the caller.
	Unpersisted bool `json:"-"`
	// StoredPath is the file the record was persisted to, empty when
	// Unpersisted is set.
	StoredPath string `json:"-"`
}
