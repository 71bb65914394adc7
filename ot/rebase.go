package ot

// Rebase computes the version of this that preserves its intent when applied
// after other, where both were authored concurrently against the same base.
// It uses the default registry's transform tables; see Registry.Rebase.
func Rebase(this, other Operation, conflictless bool) (Operation, bool) {
	return DefaultRegistry().Rebase(this, other, conflictless)
}

// Rebase dispatches to the registered transform tables. The second result is
// false when no rule in either direction could reconcile the pair — a
// legitimate outcome of concurrent editing, not a failure.
//
// The walk is symmetric because transform knowledge is declared per variant:
// this's table is tried first, taking the first element of the rule's output
// pair; if that yields nothing, other's table is tried with the roles
// swapped, taking the second element. Either side may own the pairwise rule.
//
// conflictless is advisory: it is forwarded to the transform function, which
// decides whether to prefer a lossy resolution over declaring a conflict.
func (r *Registry) Rebase(this, other Operation, conflictless bool) (Operation, bool) {
	// A no-op has nothing to contend for, and nothing needs adjusting when
	// the concurrent operation did nothing.
	if this.Tag() == NoOpTag || other.Tag() == NoOpTag {
		return this, true
	}

	if v := r.variant(this.Tag()); v != nil {
		for _, rule := range v.Rules {
			if !rule.Guard(other.Tag()) {
				continue
			}
			thisPrime, _, ok := rule.Transform(this, other, conflictless)
			if ok && thisPrime != nil {
				return thisPrime, true
			}
			// First match only: a rule that declined does not fall through
			// to later rules, only to the reversed direction.
			break
		}
	}

	if v := r.variant(other.Tag()); v != nil {
		for _, rule := range v.Rules {
			if !rule.Guard(this.Tag()) {
				continue
			}
			_, thisPrime, ok := rule.Transform(other, this, conflictless)
			if ok && thisPrime != nil {
				return thisPrime, true
			}
			break
		}
	}

	return nil, false
}
