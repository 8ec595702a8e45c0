package features

import (
	"fmt"

	"github.com/virtual-patient-simulator/internal/domain"
)

// Defaults applied when a lab was not generated for the patient's disease.
// These are fixed constants so missing-data behavior is reproducible.
const (
	defaultCholesterol  = 150
	defaultCreatinine   = 1.0
	defaultUrea         = 30.0
	defaultHbA1c        = 6.0
	defaultBloodGlucose = 120
)

// Schemas returns the feature schema for every supported disease, keyed by
// disease name.
func Schemas() map[domain.Disease]*Schema {
	return map[domain.Disease]*Schema{
		domain.Diabetes:      DiabetesSchema(),
		domain.HeartDisease:  HeartDiseaseSchema(),
		domain.KidneyDisease: KidneySchema(),
	}
}

// ForDisease returns the schema for one disease.
func ForDisease(d domain.Disease) (*Schema, error) {
	schema, ok := Schemas()[d]
	if !ok {
		return nil, fmt.Errorf("no feature schema for disease %q", d)
	}
	return schema, nil
}

// DiabetesSchema is the 8-field contract of the diabetes model.
func DiabetesSchema() *Schema {
	return &Schema{
		Disease: domain.Diabetes,
		Fields: []Field{
			{Name: "age", Extract: age},
			{Name: "blood_glucose", Default: defaultBloodGlucose, Extract: lab("blood_glucose")},
			{Name: "cholesterol", Default: defaultCholesterol, Extract: lab("cholesterol")},
			{Name: "creatinine", Default: defaultCreatinine, Extract: lab("creatinine")},
			{Name: "hbA1c", Default: defaultHbA1c, Extract: lab("hbA1c")},
			{Name: "bmi", Extract: bmi},
			{Name: "family_history", Extract: risk("family_history")},
			{Name: "obesity", Extract: risk("obesity")},
		},
	}
}

// HeartDiseaseSchema is the 13-field contract of the heart disease model.
func HeartDiseaseSchema() *Schema {
	return &Schema{
		Disease: domain.HeartDisease,
		Fields: []Field{
			{Name: "age", Extract: age},
			{Name: "blood_pressure_systolic", Extract: systolic},
			{Name: "blood_pressure_diastolic", Extract: diastolic},
			{Name: "heart_rate", Extract: heartRate},
			{Name: "cholesterol", Default: defaultCholesterol, Extract: lab("cholesterol")},
			{Name: "creatinine", Default: defaultCreatinine, Extract: lab("creatinine")},
			{Name: "urea", Default: defaultUrea, Extract: lab("urea")},
			{Name: "hbA1c", Default: defaultHbA1c, Extract: lab("hbA1c")},
			{Name: "smoking", Extract: risk("smoking")},
			{Name: "alcohol", Extract: risk("alcohol")},
			{Name: "physical_inactivity", Extract: risk("physical_inactivity")},
			{Name: "family_history", Extract: risk("family_history")},
			{Name: "bmi", Extract: bmi},
		},
	}
}

// KidneySchema is the 18-field contract of the kidney disease model. The two
// trailing placeholder fields carry a constant 1 to satisfy the trained
// model's input width; no semantic feature exists for them.
func KidneySchema() *Schema {
	return &Schema{
		Disease: domain.KidneyDisease,
		Fields: []Field{
			{Name: "age", Extract: age},
			{Name: "blood_pressure_systolic", Extract: systolic},
			{Name: "blood_pressure_diastolic", Extract: diastolic},
			{Name: "heart_rate", Extract: heartRate},
			{Name: "creatinine", Default: defaultCreatinine, Extract: lab("creatinine")},
			{Name: "urea", Default: defaultUrea, Extract: lab("urea")},
			{Name: "blood_glucose", Default: defaultBloodGlucose, Extract: lab("blood_glucose")},
			{Name: "hbA1c", Default: defaultHbA1c, Extract: lab("hbA1c")},
			{Name: "cholesterol", Default: defaultCholesterol, Extract: lab("cholesterol")},
			{Name: "bmi", Extract: bmi},
			{Name: "smoking", Extract: risk("smoking")},
			{Name: "alcohol", Extract: risk("alcohol")},
			{Name: "physical_inactivity", Extract: risk("physical_inactivity")},
			{Name: "family_history", Extract: risk("family_history")},
			{Name: "obesity", Extract: risk("obesity")},
			{Name: "is_male", Extract: isMale},
			{Name: "placeholder_1", Default: 1},
			{Name: "placeholder_2", Default: 1},
		},
	}
}

// Extractors shared by the schemas.

func age(p *domain.PatientRecord) (float64, bool, error) {
	return float64(p.Demographics.Age), true, nil
}

func bmi(p *domain.PatientRecord) (float64, bool, error) {
	return p.Demographics.BMI, true, nil
}

func systolic(p *domain.PatientRecord) (float64, bool, error) {
	return float64(p.Vitals.BloodPressureSystolic), true, nil
}

func diastolic(p *domain.PatientRecord) (float64, bool, error) {
	return float64(p.Vitals.BloodPressureDiastolic), true, nil
}

func heartRate(p *domain.PatientRecord) (float64, bool, error) {
	return float64(p.Vitals.HeartRate), true, nil
}

func isMale(p *domain.PatientRecord) (float64, bool, error) {
	switch p.Demographics.Gender {
	case "male":
		return 1, true, nil
	case "female":
		return 0, true, nil
	default:
		return 0, false, domain.NewFeatureAdaptationError(
			domain.KidneyDisease, "is_male", fmt.Sprintf("unrecognized gender %q", p.Demographics.Gender))
	}
}

// lab reads a lab value, reporting absence so the schema default applies.
func lab(name string) func(p *domain.PatientRecord) (float64, bool, error) {
	return func(p *domain.PatientRecord) (float64, bool, error) {
		v, ok := p.LabValues[name]
		return v, ok, nil
	}
}

// risk encodes a boolean risk factor as 0/1.
func risk(name string) func(p *domain.PatientRecord) (float64, bool, error) {
	return func(p *domain.PatientRecord) (float64, bool, error) {
		return p.Risk(name), true, nil
	}
}
