package server

import (
	"context"
	"log"

	"github.com/alimasry/go-ot-rebase/ot"
	"github.com/alimasry/go-ot-rebase/store"
)

type opMessage struct {
	client *Client
	msg    ClientMessage
}

// Session manages collaboration for a single document.
// All rebases are serialized through a single goroutine.
type Session struct {
	docID    string
	log      *ot.Log
	engine   ot.Engine
	registry *ot.Registry
	store    store.DocumentStore
	clients  map[*Client]bool

	incoming chan opMessage
	join     chan *Client
	leave    chan *Client
	stop     chan struct{}
}

func newSession(docID string, version int, history []ot.Operation, engine ot.Engine, registry *ot.Registry, st store.DocumentStore) *Session {
	return &Session{
		docID:    docID,
		log:      &ot.Log{Version: version, History: history},
		engine:   engine,
		registry: registry,
		store:    st,
		clients:  make(map[*Client]bool),
		incoming: make(chan opMessage, 64),
		join:     make(chan *Client, 16),
		leave:    make(chan *Client, 16),
		stop:     make(chan struct{}),
	}
}

// Run is the session's main loop. It serializes all operations.
func (s *Session) Run() {
	for {
		select {
		case c := <-s.join:
			s.handleJoin(c)
		case c := <-s.leave:
			s.handleLeave(c)
		case om := <-s.incoming:
			s.handleOp(om)
		case <-s.stop:
			return
		}
	}
}

func (s *Session) handleJoin(c *Client) {
	select {
	case <-c.done:
		// Connection closed while the join was in flight.
		return
	default:
	}

	s.clients[c] = true
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()

	// Send the rebased history to the joining client so it can rebuild state.
	history := make([]map[string]any, len(s.log.History))
	for i, op := range s.log.History {
		history[i] = ot.Encode(op)
	}
	c.sendMsg(ServerMessage{
		Type:     MsgDoc,
		DocID:    s.docID,
		Revision: s.log.Version,
		History:  history,
		Clients:  s.clientInfos(),
	})

	// Notify other clients about the new collaborator.
	info := c.Info()
	for other := range s.clients {
		if other != c {
			other.sendMsg(ServerMessage{
				Type:     MsgJoin,
				ClientID: info.ID,
				Name:     info.Name,
			})
		}
	}
}

func (s *Session) handleLeave(c *Client) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	// The client may already be in another session (it left to switch
	// documents); only clear the pointer if it still refers to us. The send
	// channel stays open; the write pump owns the connection's lifetime.
	c.mu.Lock()
	if c.session == s {
		c.session = nil
	}
	c.mu.Unlock()

	// Notify others.
	for other := range s.clients {
		other.sendMsg(ServerMessage{
			Type:     MsgLeave,
			ClientID: c.ID,
		})
	}
}

func (s *Session) handleOp(om opMessage) {
	op, err := s.registry.Decode(om.msg.Op)
	if err != nil {
		log.Printf("session %s: decode error: %v", s.docID, err)
		om.client.sendError("decode error: " + err.Error())
		return
	}

	// Rebase the client's operation over the history it hasn't seen.
	rebased, ok, err := s.engine.RebaseIncoming(op, om.msg.Revision, s.log.History, om.msg.Conflictless)
	if err != nil {
		log.Printf("session %s: rebase error: %v", s.docID, err)
		om.client.sendError("rebase error: " + err.Error())
		return
	}
	if !ok {
		// Not a failure — the concurrent edits cannot be reconciled under the
		// registered rules. The sender decides what to do with its operation.
		om.client.sendMsg(ServerMessage{
			Type:     MsgConflict,
			DocID:    s.docID,
			Revision: s.log.Version,
		})
		return
	}

	absorbed := rebased.Tag() == ot.NoOpTag
	s.log.Append(rebased)

	if !absorbed {
		ctx := context.Background()
		if err := s.store.AppendOperation(ctx, s.docID, rebased, s.log.Version); err != nil {
			log.Printf("session %s: persist error: %v", s.docID, err)
		}
	}

	// Ack the sender.
	om.client.sendMsg(ServerMessage{
		Type:     MsgAck,
		Revision: s.log.Version,
	})

	// Broadcast to other clients, unless the operation was absorbed into a
	// no-op — there is nothing for them to apply.
	if absorbed {
		return
	}
	encoded := ot.Encode(rebased)
	for c := range s.clients {
		if c != om.client {
			c.sendMsg(ServerMessage{
				Type:     MsgOp,
				DocID:    s.docID,
				Revision: s.log.Version,
				Op:       encoded,
				ClientID: om.client.ID,
			})
		}
	}
}

func (s *Session) clientInfos() []ClientInfo {
	infos := make([]ClientInfo, 0, len(s.clients))
	for c := range s.clients {
		infos = append(infos, c.Info())
	}
	return infos
}
