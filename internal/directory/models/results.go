package models

import (
	"net/http"
	"time"
)

// ReconciliationResult is the categorised output of one reconciliation run.
type ReconciliationResult struct {
	// ImportDate is the run-start timestamp (Unix milliseconds) stamped on every
	// record matched or created by the run.
	ImportDate int64
	Active     []UserRecord
	Inactive   []UserRecord

	// Created and Updated count the active records that were new to the store
	// and those that matched an existing record.
	Created int
	Updated int
	// Deactivated counts stored records absent from the incoming snapshot.
	Deactivated int
}

// Records returns the active records followed by the inactive ones.
func (r ReconciliationResult) Records() []UserRecord {
	out := make([]UserRecord, 0, len(r.Active)+len(r.Inactive))
	out = append(out, r.Active...)
	return append(out, r.Inactive...)
}

// ConvergenceOutcome summarises how far the store was driven towards the
// reconciled record set.
type ConvergenceOutcome struct {
	// Cost is the total request charge reported by the store for acknowledged writes.
	Cost         float64
	Attempts     int
	Acknowledged int
	// Remaining counts records still rate limited when the attempt budget ran out.
	Remaining    int
	RemainingIDs []string
	// Dropped lists records rejected with a non-retryable status.
	Dropped []string
}

// OperationType names a bulk operation understood by the store.
type OperationType string

const OperationUpsert OperationType = "Upsert"

// BulkOperation is one item of a bulk-write call.
type BulkOperation struct {
	Type         OperationType
	PartitionKey string
	Body         UserRecord
}

// BulkResult is the store's answer for the operation at the same index.
type BulkResult struct {
	ID            string
	StatusCode    int
	RequestCharge float64
	Message       string
}

// Succeeded reports whether the item was created or replaced.
func (r BulkResult) Succeeded() bool {
	return r.StatusCode == http.StatusOK || r.StatusCode == http.StatusCreated
}

// RateLimited reports whether the store refused the item for throughput reasons.
func (r BulkResult) RateLimited() bool {
	return r.StatusCode == http.StatusTooManyRequests
}

// RunEvent is published once per run after the report has been rendered.
type RunEvent struct {
	RunID       string    `json:"runId"`
	Succeeded   bool      `json:"succeeded"`
	Error       string    `json:"error,omitempty"`
	ImportDate  int64     `json:"importDate,omitempty"`
	Active      int       `json:"active"`
	Inactive    int       `json:"inactive"`
	Created     int       `json:"created"`
	Updated     int       `json:"updated"`
	Attempts    int       `json:"attempts"`
	Remaining   int       `json:"remaining"`
	Dropped     int       `json:"dropped"`
	Cost        float64   `json:"cost"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
}
