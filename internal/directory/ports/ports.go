// Package ports defines the capabilities an import run depends on.
// Implementations live in the store, snapshot, notify, phonelist and events
// packages; the service only sees these interfaces.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks UserReader,BulkWriter,UserStore,OrgStatusSource,SnapshotSource,Notifier,PhoneListSink,EventPublisher

import (
	"context"

	"phonebook/internal/directory/models"
)

// UserReader returns the full stored population. No filtering happens server-side.
type UserReader interface {
	ReadAll(ctx context.Context) ([]models.UserRecord, error)
}

// BulkWriter applies an ordered batch of operations and answers per item, in
// the same order. An error means the call as a whole failed and no per-item
// answers are available.
type BulkWriter interface {
	Bulk(ctx context.Context, ops []models.BulkOperation) ([]models.BulkResult, error)
}

// UserStore is the persisted store as seen by a run.
type UserStore interface {
	UserReader
	BulkWriter
}

// OrgStatusSource supplies the orgCode -> active reference mapping.
type OrgStatusSource interface {
	OrgStatus(ctx context.Context) (map[string]bool, error)
}

// SnapshotSource supplies the incoming snapshot for a run.
type SnapshotSource interface {
	Load(ctx context.Context) ([]models.RawUser, error)
}

// Notifier delivers the rendered report.
type Notifier interface {
	Deliver(ctx context.Context, subject, body string) error
}

// PhoneListSink receives the formatted phone numbers of active users.
type PhoneListSink interface {
	WritePhoneNumbers(ctx context.Context, numbers []string) error
}

// EventPublisher announces finished runs to downstream consumers.
type EventPublisher interface {
	PublishRunCompleted(ctx context.Context, event models.RunEvent) error
}
