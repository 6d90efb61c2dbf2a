package etl

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound means the input path does not resolve to a readable file.
	ErrSourceNotFound = errors.New("source not found")
	// ErrSourceMalformed means the input cannot be parsed as tabular data.
	ErrSourceMalformed = errors.New("source malformed")
	// ErrStoreUnavailable means the target store cannot be opened or written.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrSchemaConflict means an incompatible object occupies the target name.
	ErrSchemaConflict = errors.New("schema conflict")
)

// Stage names a pipeline step for error reporting.
type Stage string

const (
	StageRead  Stage = "read"
	StageWrite Stage = "write"
)

// StageError reports which pipeline stage aborted the run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
