package server

import (
	"context"
	"log"
	"sync"

	"github.com/alimasry/go-ot-rebase/ot"
	"github.com/alimasry/go-ot-rebase/store"
)

type joinRequest struct {
	client *Client
	docID  string
}

// Hub manages document sessions and routes clients to the right session.
type Hub struct {
	store    store.DocumentStore
	engine   ot.Engine
	registry *ot.Registry
	sessions map[string]*Session
	mu       sync.RWMutex

	joinDoc chan joinRequest
}

// NewHub creates a hub. A nil registry means sessions decode incoming
// operations against the default registry.
func NewHub(st store.DocumentStore, engine ot.Engine, registry *ot.Registry) *Hub {
	if registry == nil {
		registry = ot.DefaultRegistry()
	}
	return &Hub{
		store:    st,
		engine:   engine,
		registry: registry,
		sessions: make(map[string]*Session),
		joinDoc:  make(chan joinRequest, 64),
	}
}

// Run is the hub's main loop.
func (h *Hub) Run() {
	for req := range h.joinDoc {
		h.handleJoinDoc(req)
	}
}

func (h *Hub) handleJoinDoc(req joinRequest) {
	h.mu.RLock()
	s, ok := h.sessions[req.docID]
	h.mu.RUnlock()

	if !ok {
		// Load from the store without the lock held; a slow backend must not
		// stall session lookups.
		ctx := context.Background()
		if _, err := h.store.Get(ctx, req.docID); err != nil {
			if err := h.store.Create(ctx, req.docID); err != nil {
				log.Printf("hub: failed to create doc %q: %v", req.docID, err)
				req.client.sendError("failed to create document")
				return
			}
		}

		info, err := h.store.Get(ctx, req.docID)
		if err != nil {
			log.Printf("hub: failed to get doc %q: %v", req.docID, err)
			req.client.sendError("failed to load document")
			return
		}
		history, err := h.store.GetOperations(ctx, req.docID, 0)
		if err != nil {
			log.Printf("hub: failed to load history for doc %q: %v", req.docID, err)
			req.client.sendError("failed to load document")
			return
		}

		h.mu.Lock()
		if existing, ok := h.sessions[req.docID]; ok {
			s = existing
		} else {
			s = newSession(req.docID, info.Version, history, h.engine, h.registry, h.store)
			h.sessions[req.docID] = s
			go s.Run()
		}
		h.mu.Unlock()
	}

	s.join <- req.client
}

// GetSession returns the session for a document, if active.
func (h *Hub) GetSession(docID string) *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions[docID]
}
