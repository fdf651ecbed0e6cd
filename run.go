package mhracrawl

import (
	"context"
	"time"
)

// Run records one completed crawl in the run history.
type Run struct {
	ID              string    `json:"id"`
	VersionLabel    string    `json:"versionLabel"`
	Source          string    `json:"source"`
	StartedAt       time.Time `json:"startedAt"`
	TotalLetters    int       `json:"totalLetters"`
	TotalSubstances int       `json:"totalSubstances"`
	TotalProducts   int       `json:"totalProducts"`
	TotalDocuments  int       `json:"totalDocuments"`
	ArtifactDir     string    `json:"artifactDir"`
	CertificateHash string    `json:"certificateHash"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.VersionLabel == "" {
		return Errorf(EINVALID, "run version label required")
	}
	if r.Source == "" {
		return Errorf(EINVALID, "run source required")
	}
	return nil
}

// RunService represents a service for recording and querying crawl runs.
type RunService interface {
	// CreateRun records a completed run.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID           *string `json:"id"`
	VersionLabel *string `json:"versionLabel"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
