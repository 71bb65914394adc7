package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alimasry/go-ot-rebase/ot"
	"github.com/alimasry/go-ot-rebase/store"
	"github.com/alimasry/go-ot-rebase/values"
)

func newTestHub(t *testing.T, st store.DocumentStore) *Hub {
	t.Helper()
	hub := NewHub(st, &ot.ChainEngine{}, nil)
	go hub.Run()
	return hub
}

func TestHub_CreateSessionOnJoin(t *testing.T) {
	st := store.NewMemoryStore()
	hub := newTestHub(t, st)

	c := mockClient("c1")
	c.hub = hub
	hub.joinDoc <- joinRequest{client: c, docID: "new-doc"}

	// Wait a bit for the async join to be processed.
	time.Sleep(100 * time.Millisecond)

	// Client should receive a doc message.
	select {
	case data := <-c.send:
		var msg ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatal(err)
		}
		if msg.Type != MsgDoc {
			t.Errorf("expected doc, got %q", msg.Type)
		}
		if msg.DocID != "new-doc" {
			t.Errorf("docId = %q, want %q", msg.DocID, "new-doc")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout")
	}

	// Session should exist.
	s := hub.GetSession("new-doc")
	if s == nil {
		t.Error("session not created")
	}

	// The document was created in the store.
	if _, err := st.Get(ctx(), "new-doc"); err != nil {
		t.Errorf("document not in store: %v", err)
	}
}

func TestHub_LoadsExistingHistory(t *testing.T) {
	st := store.NewMemoryStore()
	st.Create(ctx(), "existing")
	st.AppendOperation(ctx(), "existing", values.NewSet("persisted"), 1)
	hub := newTestHub(t, st)

	c := mockClient("c1")
	c.hub = hub
	hub.joinDoc <- joinRequest{client: c, docID: "existing"}

	time.Sleep(100 * time.Millisecond)

	select {
	case data := <-c.send:
		var msg ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatal(err)
		}
		if msg.Revision != 1 {
			t.Errorf("revision = %d, want 1", msg.Revision)
		}
		if len(msg.History) != 1 {
			t.Fatalf("history length = %d, want 1", len(msg.History))
		}
		op, err := ot.Decode(msg.History[0])
		if err != nil {
			t.Fatal(err)
		}
		if set, ok := op.(values.Set); !ok || set.Value != "persisted" {
			t.Errorf("history op = %s", ot.Inspect(op))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout")
	}
}
