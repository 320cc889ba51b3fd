package pipeline

import (
	"time"

	"flightusd/internal/rates"
)

// State is the lifecycle position of a pipeline run
type State string

const (
	StateReady       State = "ready"
	StateExtracted   State = "extracted"
	StateTransformed State = "transformed"
	StateLoaded      State = "loaded"
	StateFailed      State = "failed"
)

// Terminal reports whether no further phase can run
func (s State) Terminal() bool {
	return s == StateLoaded || s == StateFailed
}

// Phase names a pipeline step
type Phase string

const (
	PhaseExtract   Phase = "extract"
	PhaseTransform Phase = "transform"
	PhaseLoad      Phase = "load"
)

// ConversionContext is the per-run metadata attached to every record
type ConversionContext struct {
	Rate     float64
	Currency string
	Date     string
	Source   rates.Source
}

// Result is the outcome of Run
type Result struct {
	State       State
	Phase       Phase // failing phase, empty on success
	Err         error
	Context     *ConversionContext
	Records     int
	OutputFile  string
	SummaryFile string
	Duration    time.Duration
}

// OK reports whether every phase succeeded
func (r Result) OK() bool {
	return r.Err == nil && r.State == StateLoaded
}
