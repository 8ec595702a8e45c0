package simulation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtual-patient-simulator/internal/domain"
	"github.com/virtual-patient-simulator/internal/generator"
	"github.com/virtual-patient-simulator/internal/model"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// fixedScaler / fixedClassifier are fake capability pairs with controllable
// probabilities and failures.
type fixedScaler struct{ width int }

func (f *fixedScaler) Transform(v []float64) ([]float64, error) { return v, nil }
func (f *fixedScaler) ExpectedWidth() int                       { return f.width }

type fixedClassifier struct {
	p1  float64
	err error
}

func (f *fixedClassifier) PredictProba(v []float64) ([2]float64, error) {
	if f.err != nil {
		return [2]float64{}, f.err
	}
	return [2]float64{1 - f.p1, f.p1}, nil
}

// registryWith builds a registry whose class-1 probability (or error) is
// fixed per disease.
func registryWith(p map[domain.Disease]float64, errs map[domain.Disease]error) *model.Registry {
	widths := map[domain.Disease]int{
		domain.Diabetes:      8,
		domain.HeartDisease:  13,
		domain.KidneyDisease: 18,
	}
	entries := make([]*model.Entry, 0, 3)
	for _, d := range domain.Diseases() {
		entries = append(entries, &model.Entry{
			Disease:   d,
			Scaler:    &fixedScaler{width: widths[d]},
			Model:     &fixedClassifier{p1: p[d], err: errs[d]},
			ModelPath: "models/" + string(d) + ".json",
		})
	}
	return model.NewRegistry(entries, testLogger())
}

// kidneyOnlyGenerator always selects kidney disease by zeroing the other
// priors.
func kidneyOnlyGenerator(t *testing.T) *generator.Generator {
	t.Helper()
	tables := domain.DefaultTables()
	tables.DiseasePriors[domain.Diabetes] = 0
	tables.DiseasePriors[domain.HeartDisease] = 0

	gen, err := generator.New(tables, nil, testLogger())
	require.NoError(t, err)
	return gen
}

func newTestEngine(t *testing.T, registry *model.Registry, opts ...EngineOption) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	opts = append([]EngineOption{WithSeed(42)}, opts...)
	return NewEngine(kidneyOnlyGenerator(t), registry, store, testLogger(), opts...), dir
}

func TestRunOne_CorrectnessScoring(t *testing.T) {
	// Ground truth is kidney; only the kidney model fires positive.
	registry := registryWith(map[domain.Disease]float64{
		domain.Diabetes:      0.2,
		domain.HeartDisease:  0.3,
		domain.KidneyDisease: 0.9,
	}, nil)
	engine, _ := newTestEngine(t, registry)

	record, err := engine.RunOne(context.Background())
	require.NoError(t, err)

	require.Equal(t, domain.KidneyDisease, record.Patient.GroundTruth)
	assert.Equal(t, domain.RunCompleted, record.Outcome)
	assert.Equal(t, map[domain.Disease]bool{
		domain.Diabetes:      false,
		domain.HeartDisease:  false,
		domain.KidneyDisease: true,
	}, record.Correctness)

	assert.Equal(t, 0, record.Predictions[domain.Diabetes].PredLabel)
	assert.Equal(t, 0, record.Predictions[domain.HeartDisease].PredLabel)
	assert.Equal(t, 1, record.Predictions[domain.KidneyDisease].PredLabel)
	assert.Equal(t, "models/kidney_disease.json", record.Predictions[domain.KidneyDisease].ModelPath)
}

func TestRunOne_TruePositiveRequiresGroundTruthMatch(t *testing.T) {
	// Every model fires positive but only kidney matches the ground truth.
	registry := registryWith(map[domain.Disease]float64{
		domain.Diabetes:      0.8,
		domain.HeartDisease:  0.8,
		domain.KidneyDisease: 0.8,
	}, nil)
	engine, _ := newTestEngine(t, registry)

	record, err := engine.RunOne(context.Background())
	require.NoError(t, err)

	assert.False(t, record.Correctness[domain.Diabetes])
	assert.False(t, record.Correctness[domain.HeartDisease])
	assert.True(t, record.Correctness[domain.KidneyDisease])
}

func TestRunOne_PersistsRecord(t *testing.T) {
	registry := registryWith(map[domain.Disease]float64{}, nil)
	engine, dir := newTestEngine(t, registry)

	record, err := engine.RunOne(context.Background())
	require.NoError(t, err)

	assert.False(t, record.Unpersisted)
	require.NotEmpty(t, record.StoredPath)
	assert.Contains(t, record.StoredPath, record.Patient.PatientID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(record.StoredPath), entries[0].Name())
}

func TestRunOne_PartialFailure(t *testing.T) {
	registry := registryWith(
		map[domain.Disease]float64{domain.Diabetes: 0.2, domain.KidneyDisease: 0.9},
		map[domain.Disease]error{domain.HeartDisease: fmt.Errorf("model exploded")},
	)
	engine, _ := newTestEngine(t, registry)

	record, err := engine.RunOne(context.Background())
	require.NoError(t, err, "a per-disease failure must not fail the run")

	assert.Equal(t, domain.RunPartialFailure, record.Outcome)
	assert.Len(t, record.Predictions, 2)
	assert.Contains(t, record.Errors[domain.HeartDisease], "model exploded")
	_, scored := record.Correctness[domain.HeartDisease]
	assert.False(t, scored, "failed disease must not be scored")
}

func TestRunOne_AllPredictionsFailed(t *testing.T) {
	boom := fmt.Errorf("boom")
	registry := registryWith(nil, map[domain.Disease]error{
		domain.Diabetes:      boom,
		domain.HeartDisease:  boom,
		domain.KidneyDisease: boom,
	})
	engine, _ := newTestEngine(t, registry)

	record, err := engine.RunOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RunFailed, record.Outcome)
	assert.Empty(t, record.Predictions)
}

// failingStore rejects every write.
type failingStore struct{}

func (f *failingStore) Save(record *domain.SimulationRecord) (string, error) {
	return "", domain.NewPersistenceError("nowhere", os.ErrPermission)
}

func TestRunOne_StoreFailureFlagsUnpersisted(t *testing.T) {
	registry := registryWith(map[domain.Disease]float64{domain.KidneyDisease: 0.9}, nil)
	engine := NewEngine(kidneyOnlyGenerator(t), registry, &failingStore{}, testLogger(), WithSeed(42))

	record, err := engine.RunOne(context.Background())
	require.NoError(t, err, "a persistence failure still returns the result")
	assert.True(t, record.Unpersisted)
	assert.Empty(t, record.StoredPath)
	assert.Equal(t, domain.RunCompleted, record.Outcome)
}

func TestRunBatch_IndependentRuns(t *testing.T) {
	registry := registryWith(map[domain.Disease]float64{domain.KidneyDisease: 0.9}, nil)
	engine, dir := newTestEngine(t, registry)

	results := engine.RunBatch(context.Background(), 5)
	require.Len(t, results, 5)

	ids := make(map[string]bool)
	for i, result := range results {
		assert.Equal(t, i, result.Index)
		require.NoError(t, result.Err)
		require.NotNil(t, result.Record)
		ids[result.Record.Patient.PatientID] = true
	}
	assert.Len(t, ids, 5, "every run must have a distinct patient id")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 5, "every run must persist its own record")
}

func TestRunBatch_ConcurrentRuns(t *testing.T) {
	registry := registryWith(map[domain.Disease]float64{domain.KidneyDisease: 0.9}, nil)
	engine, dir := newTestEngine(t, registry, WithWorkers(4))

	results := engine.RunBatch(context.Background(), 20)
	require.Len(t, results, 20)

	ids := make(map[string]bool)
	for i, result := range results {
		assert.Equal(t, i, result.Index, "results must preserve per-run identity")
		require.NoError(t, result.Err)
		ids[result.Record.Patient.PatientID] = true
	}
	assert.Len(t, ids, 20)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 20, "concurrent writers must never collide")
}

func TestRunBatch_RecordsHistory(t *testing.T) {
	history, err := NewSQLiteHistory(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer history.Close()

	registry := registryWith(map[domain.Disease]float64{domain.KidneyDisease: 0.9}, nil)
	engine, _ := newTestEngine(t, registry, WithHistory(history))

	engine.RunBatch(context.Background(), 3)

	summaries, err := history.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	for _, s := range summaries {
		assert.Equal(t, domain.KidneyDisease, s.GroundTruth)
		assert.Equal(t, domain.RunCompleted, s.Outcome)
		assert.Equal(t, 1, s.CorrectCount)
	}
}
