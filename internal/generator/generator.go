// Package generator produces synthetic patient records from the disease
// probability tables. All randomness flows through an explicit *rand.Rand so
// generation is reproducible under a fixed seed and safe to parallelize with
// per-run sources.
package generator

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/virtual-patient-simulator/internal/domain"
)

// Generator creates synthetic patients. It is stateless apart from its
// immutable tables and catalog, so a single instance is safe for concurrent
// use as long as each call gets its own random source.
type Generator struct {
	tables  *domain.ProbabilityTables
	catalog *ImageCatalog
	logger  *logrus.Logger
}

// New creates a generator. The tables are validated up front so a malformed
// configuration fails at startup rather than mid-batch. The catalog may be
// nil when no synthetic image assets exist.
func New(tables *domain.ProbabilityTables, catalog *ImageCatalog, logger *logrus.Logger) (*Generator, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return &Generator{tables: tables, catalog: catalog, logger: logger}, nil
}

// Generate produces one structurally complete patient record. The draw order
// is fixed (disease, demographics, symptoms, vitals, labs, risk factors,
// image) so two calls with identically seeded sources yield identical records.
func (g *Generator) Generate(rng *rand.Rand) (*domain.PatientRecord, error) {
	disease, err := g.chooseDisease(rng)
	if err != nil {
		return nil, err
	}

	patient := &domain.PatientRecord{
		PatientID:    uuid.NewString(),
		Demographics: g.generateDemographics(rng),
		Symptoms:     g.generateSymptoms(rng, disease),
		Vitals:       g.generateVitals(rng, disease),
		LabValues:    g.generateLabValues(rng, disease),
		RiskFactors:  g.generateRiskFactors(rng),
		GroundTruth:  disease,
	}

	// An absent or empty asset catalog never fails generation.
	if g.catalog != nil {
		patient.ImageReference = g.catalog.Choose(disease, rng)
	}

	g.logger.WithFields(logrus.Fields{
		"patient_id":   patient.PatientID,
		"ground_truth": disease,
		"symptoms":     len(patient.Symptoms),
	}).Debug("Generated synthetic patient")

	return patient, nil
}

// chooseDisease performs a weighted random selection over the prior table.
func (g *Generator) chooseDisease(rng *rand.Rand) (domain.Disease, error) {
	total := 0.0
	for _, d := range domain.Diseases() {
		total += g.tables.DiseasePriors[d]
	}
	if total <= 0 {
		return "", domain.NewConfigurationError("disease_priors", "", "all prior weights are zero")
	}

	r := rng.Float64() * total
	cumulative := 0.0
	for _, d := range domain.Diseases() {
		cumulative += g.tables.DiseasePriors[d]
		if r < cumulative {
			return d, nil
		}
	}
	// Floating point edge: r landed exactly on the total.
	diseases := domain.Diseases()
	return diseases[len(diseases)-1], nil
}

func (g *Generator) generateDemographics(rng *rand.Rand) domain.Demographics {
	height := intBetween(rng, 140, 190)
	weight := intBetween(rng, 45, 110)

	return domain.Demographics{
		Age:      intBetween(rng, 18, 80),
		Gender:   pick(rng, "male", "female"),
		HeightCm: height,
		WeightKg: weight,
		BMI:      round2(float64(weight) / math.Pow(float64(height)/100, 2)),
	}
}

// generateSymptoms runs an independent Bernoulli trial per symptom of the
// selected disease. The result may be empty.
func (g *Generator) generateSymptoms(rng *rand.Rand, disease domain.Disease) []string {
	symptoms := make([]string, 0)
	for _, name := range g.tables.SymptomNames(disease) {
		if rng.Float64() < g.tables.Symptoms[disease][name] {
			symptoms = append(symptoms, name)
		}
	}
	return symptoms
}

func (g *Generator) generateVitals(rng *rand.Rand, disease domain.Disease) domain.Vitals {
	ranges := g.tables.Vitals[disease]
	return domain.Vitals{
		BloodPressureSystolic:  int(uniformIn(rng, ranges.Systolic)),
		BloodPressureDiastolic: int(uniformIn(rng, ranges.Diastolic)),
		HeartRate:              int(uniformIn(rng, ranges.HeartRate)),
		RespiratoryRate:        intBetween(rng, 12, 22),
		TemperatureC:           round2(36.0 + rng.Float64()*2.0),
	}
}

// generateLabValues samples only the labs defined for the selected disease.
// Labs of other diseases stay absent; the feature adapters default them.
func (g *Generator) generateLabValues(rng *rand.Rand, disease domain.Disease) map[string]float64 {
	labs := make(map[string]float64, len(g.tables.Labs[disease]))
	for _, name := range g.tables.LabNames(disease) {
		labs[name] = uniformIn(rng, g.tables.Labs[disease][name])
	}
	return labs
}

func (g *Generator) generateRiskFactors(rng *rand.Rand) map[string]bool {
	factors := make(map[string]bool, len(g.tables.RiskFactors))
	for _, name := range g.tables.RiskFactorNames() {
		factors[name] = rng.Float64() < g.tables.RiskFactors[name]
	}
	return factors
}

// uniformIn draws uniformly from an inclusive range, rounded to 2 decimals.
func uniformIn(rng *rand.Rand, r domain.Range) float64 {
	return round2(r.Min + rng.Float64()*(r.Max-r.Min))
}

func intBetween(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func pick(rng *rand.Rand, a, b string) string {
	if rng.Intn(2) == 0 {
		return a
	}
	return b
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
