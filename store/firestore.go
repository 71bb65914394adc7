package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/alimasry/go-ot-rebase/ot"
)

// FirestoreStore is a Firestore-backed implementation of DocumentStore.
// Operations are kept in each document's "operations" subcollection in their
// portable encoded form, keyed by zero-padded history index so lexicographic
// document order is history order.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
	registry   *ot.Registry
}

// NewFirestoreStore creates a FirestoreStore. A nil registry means stored
// operations are decoded against the default registry.
func NewFirestoreStore(client *firestore.Client, registry *ot.Registry) *FirestoreStore {
	if registry == nil {
		registry = ot.DefaultRegistry()
	}
	return &FirestoreStore{
		client:     client,
		collection: "documents",
		registry:   registry,
	}
}

func (s *FirestoreStore) docRef(id string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(id)
}

func (s *FirestoreStore) opsCollection(docID string) *firestore.CollectionRef {
	return s.docRef(docID).Collection("operations")
}

func zeroPad(index int) string {
	return fmt.Sprintf("%010d", index)
}

func (s *FirestoreStore) Create(ctx context.Context, id string) error {
	now := time.Now()
	_, err := s.docRef(id).Create(ctx, map[string]interface{}{
		"version":   0,
		"createdAt": now,
		"updatedAt": now,
	})
	if status.Code(err) == codes.AlreadyExists {
		return fmt.Errorf("document %q already exists", id)
	}
	return err
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (*DocumentInfo, error) {
	snap, err := s.docRef(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("document %q not found", id)
	}
	if err != nil {
		return nil, err
	}
	return snapshotToDocInfo(id, snap), nil
}

func snapshotToDocInfo(id string, snap *firestore.DocumentSnapshot) *DocumentInfo {
	data := snap.Data()
	version, _ := data["version"].(int64)
	createdAt, _ := data["createdAt"].(time.Time)
	updatedAt, _ := data["updatedAt"].(time.Time)
	return &DocumentInfo{
		ID:        id,
		Version:   int(version),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

func (s *FirestoreStore) List(ctx context.Context) ([]DocumentInfo, error) {
	iter := s.client.Collection(s.collection).Documents(ctx)
	defer iter.Stop()

	var result []DocumentInfo
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		result = append(result, *snapshotToDocInfo(snap.Ref.ID, snap))
	}
	return result, nil
}

func (s *FirestoreStore) AppendOperation(ctx context.Context, id string, op ot.Operation, version int) error {
	// Store with 0-based index: version 1 → index 0, matching MemoryStore's
	// history slice semantics where GetOperations(fromVersion) returns
	// history[fromVersion:].
	index := version - 1
	_, err := s.opsCollection(id).Doc(zeroPad(index)).Set(ctx, map[string]interface{}{
		"op":      ot.Encode(op),
		"version": version,
	})
	if err != nil {
		return err
	}

	_, err = s.docRef(id).Update(ctx, []firestore.Update{
		{Path: "version", Value: version},
		{Path: "updatedAt", Value: time.Now()},
	})
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("document %q not found", id)
	}
	return err
}

func (s *FirestoreStore) GetOperations(ctx context.Context, id string, fromVersion int) ([]ot.Operation, error) {
	// Verify document exists.
	_, err := s.docRef(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("document %q not found", id)
	}
	if err != nil {
		return nil, err
	}

	iter := s.opsCollection(id).
		OrderBy(firestore.DocumentID, firestore.Asc).
		StartAt(zeroPad(fromVersion)).
		Documents(ctx)
	defer iter.Stop()

	var ops []ot.Operation
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		op, err := s.snapshotToOperation(snap)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func (s *FirestoreStore) snapshotToOperation(snap *firestore.DocumentSnapshot) (ot.Operation, error) {
	data := snap.Data()
	encoded, ok := data["op"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid op field in operation %s", snap.Ref.ID)
	}
	op, err := s.registry.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode operation %s: %w", snap.Ref.ID, err)
	}
	return op, nil
}
