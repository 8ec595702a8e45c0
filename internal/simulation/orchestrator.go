// Package simulation composes the generator, feature adapters, and model
// registry into full simulation runs and persists their results.
package simulation

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/virtual-patient-simulator/internal/domain"
	"github.com/virtual-patient-simulator/internal/features"
	"github.com/virtual-patient-simulator/internal/generator"
	"github.com/virtual-patient-simulator/internal/model"
)

// Engine orchestrates simulation runs: generate patient → adapt features →
// predict per disease → score correctness → persist. All collaborators are
// injected and read-only, so runs are independent and safe to execute
// concurrently.
type Engine struct {
	generator *generator.Generator
	registry  *model.Registry
	store     domain.RecordStore
	history   domain.HistoryStore
	logger    *logrus.Logger

	// seed fixes the per-run random sources; 0 seeds from the clock.
	seed    int64
	workers int
	runSeq  atomic.Int64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSeed fixes the base seed; run i draws from source seed+i.
func WithSeed(seed int64) EngineOption {
	return func(e *Engine) { e.seed = seed }
}

// WithWorkers bounds batch concurrency; 1 means fully sequential.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithHistory attaches an optional run-summary store.
func WithHistory(history domain.HistoryStore) EngineOption {
	return func(e *Engine) { e.history = history }
}

// NewEngine creates a simulation engine.
func NewEngine(gen *generator.Generator, registry *model.Registry, store domain.RecordStore,
	logger *logrus.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		generator: gen,
		registry:  registry,
		store:     store,
		logger:    logger,
		workers:   1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BatchResult reports one run of a batch by its position. Failed runs keep
// their slot; a batch never merges or drops a failure.
type BatchResult struct {
	Index  int                      `json:"index"`
	Record *domain.SimulationRecord `json:"record,omitempty"`
	Err    error                    `json:"-"`
	Error  string                   `json:"error,omitempty"`
}

// RunOne executes a single simulation run with its own random source.
func (e *Engine) RunOne(ctx context.Context) (*domain.SimulationRecord, error) {
	return e.run(ctx, rand.New(rand.NewSource(e.nextSeed())))
}

// RunBatch executes n independent runs. With one worker the runs are fully
// sequential in deterministic order; otherwise they fan out across a bounded
// worker pool. Either way result i corresponds to run i.
func (e *Engine) RunBatch(ctx context.Context, n int) []BatchResult {
	results := make([]BatchResult, n)

	if e.workers <= 1 {
		for i := 0; i < n; i++ {
			record, err := e.RunOne(ctx)
			results[i] = newBatchResult(i, record, err)
		}
		return results
	}

	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			record, err := e.RunOne(ctx)
			results[i] = newBatchResult(i, record, err)
		}(i)
	}
	wg.Wait()

	return results
}

func newBatchResult(i int, record *domain.SimulationRecord, err error) BatchResult {
	result := BatchResult{Index: i, Record: record, Err: err}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// nextSeed derives a unique per-run source seed. With a fixed base seed runs
// are reproducible; without one the clock plus the run counter keeps parallel
// runs from sharing a source.
func (e *Engine) nextSeed() int64 {
	seq := e.runSeq.Add(1) - 1
	if e.seed != 0 {
		return e.seed + seq
	}
	return time.Now().UnixNano() + seq
}

func (e *Engine) run(ctx context.Context, rng *rand.Rand) (*domain.SimulationRecord, error) {
	patient, err := e.generator.Generate(rng)
	if err != nil {
		e.logger.WithError(err).Error("Patient generation failed")
		return nil, err
	}

	predictions := make(map[domain.Disease]domain.Prediction)
	correctness := make(map[domain.Disease]bool)
	runErrors := make(map[domain.Disease]string)

	for _, disease := range e.registry.Diseases() {
		prediction, err := e.predictDisease(disease, patient)
		if err != nil {
			e.logger.WithError(err).WithFields(logrus.Fields{
				"patient_id": patient.PatientID,
				"disease":    disease,
			}).Error("Disease prediction failed")
			runErrors[disease] = err.Error()
			continue
		}
		predictions[disease] = prediction
		correctness[disease] = prediction.PredLabel == 1 && disease == patient.GroundTruth
	}

	record := &domain.SimulationRecord{
		Patient:     patient,
		Predictions: predictions,
		Correctness: correctness,
		Outcome:     classifyOutcome(predictions, runErrors),
		Errors:      runErrors,
		CreatedAt:   time.Now().UTC(),
	}
	if len(runErrors) == 0 {
		record.Errors = nil
	}

	e.persist(ctx, record)

	e.logger.WithFields(logrus.Fields{
		"patient_id":   patient.PatientID,
		"ground_truth": patient.GroundTruth,
		"outcome":      record.Outcome,
		"unpersisted":  record.Unpersisted,
	}).Info("Simulation run finished")

	return record, nil
}

// predictDisease adapts the patient to one disease's schema and runs its
// capability pair.
func (e *Engine) predictDisease(disease domain.Disease, patient *domain.PatientRecord) (domain.Prediction, error) {
	schema, err := features.ForDisease(disease)
	if err != nil {
		return domain.Prediction{}, err
	}

	vector, err := schema.Vector(patient)
	if err != nil {
		return domain.Prediction{}, err
	}

	return e.registry.Predict(disease, vector)
}

// classifyOutcome maps per-disease results onto the run's terminal outcome.
func classifyOutcome(predictions map[domain.Disease]domain.Prediction, runErrors map[domain.Disease]string) domain.RunOutcome {
	switch {
	case len(runErrors) == 0:
		return domain.RunCompleted
	case len(predictions) == 0:
		return domain.RunFailed
	default:
		return domain.RunPartialFailure
	}
}

// persist writes the record to the store and, best effort, to the history
// store. A store failure never fails the run; the record is flagged
// unpersisted and still returned.
func (e *Engine) persist(ctx context.Context, record *domain.SimulationRecord) {
	path, err := e.store.Save(record)
	if err != nil {
		e.logger.WithError(err).WithField("patient_id", record.Patient.PatientID).
			Error("Failed to persist simulation record")
		record.Unpersisted = true
	} else {
		record.StoredPath = path
	}

	if e.history == nil {
		return
	}
	if err := e.history.Record(ctx, record); err != nil {
		e.logger.WithError(err).WithField("patient_id", record.Patient.PatientID).
			Warn("Failed to record run in history store")
	}
}
