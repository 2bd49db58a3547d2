package cron_feature

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SweepStatus string

const (
	SweepStatusSuccess SweepStatus = "success"
	SweepStatusPartial SweepStatus = "partial"
	SweepStatusFailed  SweepStatus = "failed"
)

// SweepResult is the outcome of one sweeper within a run.
type SweepResult struct {
	Sweeper string `json:"sweeper" bson:"sweeper"`
	Closed  int    `json:"closed" bson:"closed"`
	Error   string `json:"error,omitempty" bson:"error,omitempty"`
}

// SweepRun records one pass over every registered sweeper.
type SweepRun struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty" swaggertype:"string"`
	Trigger     string             `json:"trigger" bson:"trigger"` // "schedule" or "manual"
	Status      SweepStatus        `json:"status" bson:"status"`
	Results     []SweepResult      `json:"results" bson:"results"`
	StartedAt   time.Time          `json:"started_at" bson:"started_at"`
	CompletedAt time.Time          `json:"completed_at" bson:"completed_at"`
	DurationMs  int64              `json:"duration_ms" bson:"duration_ms"`
}

// TotalClosed sums the sessions closed by every sweeper.
func (r *SweepRun) TotalClosed() int {
	n := 0
	for _, res := range r.Results {
		n += res.Closed
	}
	return n
}
