package ast

// Element is a node of the static DOM built from #new rules. The tree is
// immutable after the DOM builder pass finishes.
type Element struct {
	Name     string
	Ty       *Type
	ID       int64
	Children []*Element
}

// Add appends a child element and returns it
func (e *Element) Add(name string, ty *Type, id int64) *Element {
	child := &Element{Name: name, Ty: ty, ID: id}
	e.Children = append(e.Children, child)
	return child
}

// At returns the child at the given index
func (e *Element) At(index int) *Element {
	return e.Children[index]
}

// Count returns the total number of elements in the subtree, including
// the receiver
func (e *Element) Count() int {
	total := 1
	for _, c := range e.Children {
		total += c.Count()
	}
	return total
}
