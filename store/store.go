package store

import (
	"context"
	"time"

	"github.com/alimasry/go-ot-rebase/ot"
)

// DocumentInfo holds a document's metadata. The engine keeps no content
// here; a document is its rebased operation history.
type DocumentInfo struct {
	ID        string
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentStore abstracts persistence of operation histories.
// Implementations: MemoryStore, FirestoreStore, CachedStore.
type DocumentStore interface {
	Create(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*DocumentInfo, error)
	List(ctx context.Context) ([]DocumentInfo, error)
	AppendOperation(ctx context.Context, id string, op ot.Operation, version int) error
	GetOperations(ctx context.Context, id string, fromVersion int) ([]ot.Operation, error)
}
