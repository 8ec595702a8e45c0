package simulation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/virtual-patient-simulator/internal/domain"
)

// FileStore persists one JSON document per simulation run into a directory.
// The store is append-only: filenames embed the run timestamp and patient id,
// and files are opened exclusively so a record can never be overwritten.
type FileStore struct {
	dir string
}

// NewFileStore creates the output directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the record exactly once and returns the path written. The
// nanosecond timestamp plus patient id keeps concurrent batch writers from
// ever colliding.
func (s *FileStore) Save(record *domain.SimulationRecord) (string, error) {
	name := fmt.Sprintf("patient_%s_%s.json",
		record.CreatedAt.UTC().Format("20060102_150405.000000000"),
		record.Patient.PatientID)
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return "", domain.NewPersistenceError(path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", domain.NewPersistenceError(path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return "", domain.NewPersistenceError(path, err)
	}

	return path, nil
}
