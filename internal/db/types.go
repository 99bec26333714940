package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents an evaluation run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Query       string     `json:"query"`
	Category    string     `json:"category"`
	Recommended string     `json:"recommended,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Run status constants
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ArtifactStep constants for the artifacts each pipeline phase produces
const (
	StepContext        = "context"
	StepCandidates     = "candidates"
	StepFindings       = "findings"
	StepWeights        = "weights"
	StepAdjustments    = "adjustments"
	StepScores         = "scores"
	StepRecommendation = "recommendation"
	StepReport         = "report"
)
