package domain

import "context"

// Scaler is the feature-scaling half of a model capability pair. Its expected
// input width defines the width feature vectors are reconciled to before
// scaling.
type Scaler interface {
	// Transform scales a feature vector of ExpectedWidth elements.
	Transform(vector []float64) ([]float64, error)

	// ExpectedWidth returns the input width the scaler was fitted on.
	ExpectedWidth() int
}

// Classifier is the predicting half of a model capability pair.
type Classifier interface {
	// PredictProba returns the class probabilities [p0, p1] for a scaled
	// feature vector. Both values are assumed to lie in [0,1] and sum to 1;
	// this is the collaborator's contract, not enforced here.
	PredictProba(vector []float64) ([2]float64, error)
}

// RecordStore persists completed simulation records. Implementations must
// write each record exactly once under a per-run-unique name.
type RecordStore interface {
	// Save writes a record and returns the path it was stored at.
	Save(record *SimulationRecord) (string, error)
}

// HistoryStore keeps a queryable summary of past simulation runs.
type HistoryStore interface {
	// Record stores a summary row for a completed run.
	Record(ctx context.Context, record *SimulationRecord) error

	// Recent returns summaries of the most recent runs, newest first.
	Recent(ctx context.Context, limit int) ([]RunSummary, error)

	Close() error
}

// RunSummary is the history store's view of one simulation run.
type RunSummary struct {
	PatientID    string     `json:"patient_id"`
	GroundTruth  Disease    `json:"ground_truth"`
	Outcome      RunOutcome `json:"outcome"`
	CorrectCount int        `json:"correct_count"`
	StoredPath   string     `json:"stored_path,omitempty"`
	CreatedAt    string     `json:"created_at"`
}
