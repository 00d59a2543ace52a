// Package store persists decision reports so past evaluations can be
// reviewed and compared against later outcomes.
package store

import (
	"context"
	"time"

	"equity-trader/internal/models"
)

// DecisionRecord is one persisted evaluation of a ticker.
type DecisionRecord struct {
	ID            string                `json:"id"`
	Ticker        string                `json:"ticker"`
	Decision      models.FinalDecision  `json:"decision"`
	CandidateType models.CandidateType  `json:"candidate_type,omitempty"`
	BlockStage    string                `json:"block_stage,omitempty"`
	ReasonLog     []string              `json:"reason_log"`
	ActionPlan    []string              `json:"action_plan"`
	CreatedAt     time.Time             `json:"created_at"`
}

// RecordFilter narrows a record listing.
type RecordFilter struct {
	Ticker   string
	Decision models.FinalDecision
	Since    time.Time
	Limit    int
}

// DecisionStore defines the persistence interface for decision records.
type DecisionStore interface {
	SaveRecord(ctx context.Context, record *DecisionRecord) error
	GetRecords(ctx context.Context, filter RecordFilter) ([]DecisionRecord, error)
	GetRecordByID(ctx context.Context, id string) (*DecisionRecord, error)
	Close() error
}
