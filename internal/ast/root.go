package ast

// RootNode is the per-translation-unit container. It owns the ordered
// top-level nodes and keeps indexes for classes and snippets; rules are
// collected from the top-level nodes on demand.
type RootNode struct {
	Node

	classes  map[string]*Node
	snippets map[string]*Node
}

// NewRootNode creates an empty root
func NewRootNode() *RootNode {
	r := &RootNode{
		classes:  make(map[string]*Node),
		snippets: make(map[string]*Node),
	}
	r.Kind = KindRoot
	return r
}

// Add appends a top-level node, indexing classes as they arrive
func (r *RootNode) Add(node *Node) {
	if node == nil {
		return
	}
	r.AddChild(node)
	if node.Kind == KindClassDecl {
		r.classes[node.Name] = node
	}
}

// Prepend inserts a top-level node before all existing ones
func (r *RootNode) Prepend(node *Node) {
	if node == nil {
		return
	}
	node.Parent = &r.Node
	r.Children = append([]*Node{node}, r.Children...)
	if node.Kind == KindClassDecl {
		r.classes[node.Name] = node
	}
}

// Nodes returns the ordered top-level nodes
func (r *RootNode) Nodes() []*Node {
	return r.Children
}

// SetNodes replaces the top-level nodes, re-parenting each
func (r *RootNode) SetNodes(nodes []*Node) {
	for _, n := range nodes {
		if n != nil {
			n.Parent = &r.Node
		}
	}
	r.Children = nodes
}

// ClassNamed returns the class declaration with the given name, nil if absent
func (r *RootNode) ClassNamed(name string) *Node {
	return r.classes[name]
}

// AddClass indexes a class declaration
func (r *RootNode) AddClass(cd *Node) {
	if cd != nil && cd.Kind == KindClassDecl {
		r.classes[cd.Name] = cd
	}
}

// RemoveClass removes a class declaration from the index
func (r *RootNode) RemoveClass(cd *Node) {
	if cd == nil {
		return
	}
	if existing, ok := r.classes[cd.Name]; ok && existing == cd {
		delete(r.classes, cd.Name)
	}
}

// Classes returns the class index
func (r *RootNode) Classes() map[string]*Node {
	return r.classes
}

// Rules returns the top-level rules in source order
func (r *RootNode) Rules() []*Node {
	var rules []*Node
	for _, n := range r.Children {
		if n.Kind == KindRule {
			rules = append(rules, n)
		}
	}
	return rules
}

// AddSnippet registers a #snippet body under its name
func (r *RootNode) AddSnippet(name string, snippet *Node) {
	r.snippets[name] = snippet
}

// SnippetNamed returns a registered snippet, nil if absent
func (r *RootNode) SnippetNamed(name string) *Node {
	return r.snippets[name]
}
