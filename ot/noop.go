package ot

// NoOpTag identifies the sentinel operation that changes nothing.
var NoOpTag = Tag{Namespace: "core", Kind: "NO_OP"}

// NoOp is the do-nothing operation. It is exempt from conflict: rebasing it
// against anything returns it unchanged, and rebasing anything against it
// returns that operation unchanged. Transform functions return it when one
// side of a pair has been absorbed.
type NoOp struct{}

func (NoOp) Tag() Tag        { return NoOpTag }
func (NoOp) Fields() []Field { return nil }

func init() {
	MustRegister(&Variant{
		Tag: NoOpTag,
		New: func([]any) Operation { return NoOp{} },
	})
}
