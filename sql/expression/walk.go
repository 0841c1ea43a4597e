package expression

// Visitor visits nodes of a bound expression.
type Visitor interface {
	// Visit is invoked for each node encountered by Walk.
	// If the result Visitor is not nil, Walk visits each of the children
	// of the node with that visitor, followed by a call of Visit(nil)
	// to the returned visitor.
	Visit(n Node) Visitor
}

// Walk traverses the expression in depth-first order. It starts by calling
// v.Visit(n); n must not be nil. If the visitor returned by v.Visit(n) is
// not nil, Walk is invoked recursively with the returned visitor for each
// child of n, followed by a call of v.Visit(nil) to the returned visitor.
func Walk(v Visitor, n Node) {
	if v = v.Visit(n); v == nil {
		return
	}

	for _, child := range n.Children() {
		Walk(v, child)
	}

	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect traverses the expression in depth-first order: it starts by
// calling f(n); n must not be nil. If f returns true, Inspect invokes f
// recursively for each of the children of n, followed by a call of f(nil).
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}

// Fields returns the column references found in the expression, in the
// order they appear.
func Fields(n Node) []*Field {
	var fields []*Field
	Inspect(n, func(n Node) bool {
		if f, ok := n.(*Field); ok {
			fields = append(fields, f)
		}
		return true
	})
	return fields
}

// HasAggregate returns whether the expression calls an aggregate function.
func HasAggregate(n Node) bool {
	var found bool
	Inspect(n, func(n Node) bool {
		if found {
			return false
		}
		if fn, ok := n.(*FuncCall); ok && fn.Func.IsAggregate() {
			found = true
			return false
		}
		return true
	})
	return found
}
