package dataset

import (
	"fmt"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
)

// Load operations reported by LoadError
const (
	OpFetch = "fetch"
	OpParse = "parse"
)

// LoadError reports a failed dataset load. The dashboard renders no charts when it occurs.
type LoadError struct {
	Source model.Source
	Op     string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx response from the data host
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}
