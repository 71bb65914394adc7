package ot

import "fmt"

// Log is a document's rebased operation history. The engine never applies
// operations to content; it only records the order they were accepted in.
type Log struct {
	Version int
	History []Operation
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append records an accepted operation. No-ops are dropped — they carry no
// effect and would only pad the history every later edit rebases over.
func (l *Log) Append(op Operation) {
	if op.Tag() == NoOpTag {
		return
	}
	l.History = append(l.History, op)
	l.Version++
}

// Engine abstracts how an incoming operation is reconciled with history.
type Engine interface {
	// RebaseIncoming rebases a client operation (created at the given
	// revision) over every history entry the client hasn't seen. The second
	// result is false if some step was an unresolvable conflict.
	RebaseIncoming(op Operation, revision int, history []Operation, conflictless bool) (Operation, bool, error)
}

// ChainEngine rebases the incoming operation sequentially over each unseen
// history entry, oldest first.
type ChainEngine struct {
	// Registry supplies the transform tables; nil means the default registry.
	Registry *Registry
}

func (e *ChainEngine) registry() *Registry {
	if e.Registry != nil {
		return e.Registry
	}
	return DefaultRegistry()
}

func (e *ChainEngine) RebaseIncoming(op Operation, revision int, history []Operation, conflictless bool) (Operation, bool, error) {
	if revision < 0 || revision > len(history) {
		return nil, false, fmt.Errorf("invalid revision %d (history len %d)", revision, len(history))
	}

	r := e.registry()
	rebased := op
	for i := revision; i < len(history); i++ {
		next, ok := r.Rebase(rebased, history[i], conflictless)
		if !ok {
			return nil, false, nil
		}
		rebased = next
	}
	return rebased, true, nil
}
