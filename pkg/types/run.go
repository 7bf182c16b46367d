// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunStatus is the outcome of a merge run.
type RunStatus string

const (
	RunOK     RunStatus = "ok"
	RunFailed RunStatus = "failed"
)

// MergeRun records one invocation of the merge pipeline. It holds metadata
// only; file contents are never stored.
type MergeRun struct {
	// ID is the database row identifier, assigned on insert.
	ID int64 `json:"id" yaml:"id"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// Inputs lists the input display names in merge order.
	Inputs []string `json:"inputs" yaml:"inputs"`

	// Pages is the total page count of the output (0 on failure).
	Pages int `json:"pages" yaml:"pages"`

	// OutputPath is where the merged file was saved, if anywhere.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Status is ok or failed.
	Status RunStatus `json:"status" yaml:"status"`

	// Error holds the failure message for failed runs.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
