package node

// Equal reports deep structural equality of two trees. Scalars compare by
// cty raw equality, so numbers compare by value rather than representation.
// Overwrite flags participate: a marked and an unmarked collection differ.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case *Scalar:
		bv, ok := b.(*Scalar)
		return ok && av.Value.RawEquals(bv.Value)
	case *Sequence:
		bv, ok := b.(*Sequence)
		if !ok || av.Overwrite != bv.Overwrite || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Mapping:
		bv, ok := b.(*Mapping)
		if !ok || av.Overwrite != bv.Overwrite || len(av.Entries) != len(bv.Entries) {
			return false
		}
		for i := range av.Entries {
			if av.Entries[i].Key != bv.Entries[i].Key || !Equal(av.Entries[i].Value, bv.Entries[i].Value) {
				return false
			}
		}
		return true
	case *Call:
		bv, ok := b.(*Call)
		return ok && Equal(av.Target, bv.Target) && Equal(av.Attributes, bv.Attributes)
	case *Statement:
		bv, ok := b.(*Statement)
		if !ok || !Equal(av.Entity, bv.Entity) {
			return false
		}
		if av.Arguments == nil || bv.Arguments == nil {
			return av.Arguments == nil && bv.Arguments == nil
		}
		return Equal(av.Arguments, bv.Arguments)
	case *Literal:
		bv, ok := b.(*Literal)
		return ok && av.Expr == bv.Expr
	default:
		return false
	}
}
