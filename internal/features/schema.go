// Package features maps patient records into the fixed-order numeric vectors
// each diagnostic model was trained on. Every model's field order is an
// explicit schema of (name, default, extractor) entries rather than an
// implicit positional array, so missing-data behavior is deterministic and
// width mismatches surface as a visible reconciliation step.
package features

import (
	"math"

	"github.com/virtual-patient-simulator/internal/domain"
)

// Field is one position in a model's feature schema. When Extract is nil or
// reports the value absent, the deterministic Default fills the position.
type Field struct {
	Name    string
	Default float64
	Extract func(p *domain.PatientRecord) (value float64, ok bool, err error)
}

// Schema is the ordered feature contract between one disease's adapter and
// its trained model. Width is fixed per disease: diabetes 8, heart 13,
// kidney 18.
type Schema struct {
	Disease domain.Disease
	Fields  []Field
}

// Width returns the schema's fixed vector length.
func (s *Schema) Width() int {
	return len(s.Fields)
}

// Vector adapts a patient record into this schema's ordered feature vector.
// The result always has exactly Width elements; absent fields take their
// defaults, and a structurally malformed field yields a
// FeatureAdaptationError.
func (s *Schema) Vector(p *domain.PatientRecord) ([]float64, error) {
	vec := make([]float64, len(s.Fields))
	for i, field := range s.Fields {
		value := field.Default
		if field.Extract != nil {
			v, ok, err := field.Extract(p)
			if err != nil {
				return nil, err
			}
			if ok {
				value = v
			}
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, domain.NewFeatureAdaptationError(s.Disease, field.Name, "value is not a finite number")
		}
		vec[i] = value
	}
	return vec, nil
}

// FieldNames returns the schema's field names in vector order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}
