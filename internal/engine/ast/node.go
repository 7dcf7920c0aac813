// Package ast is the read-only syntax tree every rule walks. Trees are built
// once by the parser adapter (or by hand in tests) and never change afterwards,
// so any number of rules may share one tree concurrently.
package ast

import "fmt"

// Location is a 1-based source position. An empty File means the node has no
// associated source file.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) HasFile() bool {
	return l.File != ""
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Attrs carries the construction-time attributes of a Node.
type Attrs struct {
	Kind        Kind
	Spelling    string
	DisplayName string
	Location    Location
	Linkage     Linkage
	// Token is the literal text as written. Only meaningful for literals.
	Token string
}

type Node struct {
	kind        Kind
	spelling    string
	displayName string
	location    Location
	linkage     Linkage
	token       string
	children    []*Node
	adopted     bool
}

// New builds a node over already-built children. A child can belong to only
// one parent; adopting it twice panics, which keeps every tree acyclic and
// free of shared subtrees.
func New(attrs Attrs, children ...*Node) *Node {
	n := &Node{
		kind:        attrs.Kind,
		spelling:    attrs.Spelling,
		displayName: attrs.DisplayName,
		location:    attrs.Location,
		linkage:     attrs.Linkage,
		token:       attrs.Token,
	}
	if n.displayName == "" {
		n.displayName = n.spelling
	}
	if len(children) > 0 {
		n.children = make([]*Node, 0, len(children))
	}
	for _, child := range children {
		if child == nil {
			continue
		}
		if child.adopted {
			panic(fmt.Sprintf("ast: %s %q already has a parent", child.kind, child.spelling))
		}
		child.adopted = true
		n.children = append(n.children, child)
	}
	return n
}

func (n *Node) Kind() Kind            { return n.kind }
func (n *Node) Spelling() string      { return n.spelling }
func (n *Node) DisplayName() string   { return n.displayName }
func (n *Node) Location() Location    { return n.location }
func (n *Node) Linkage() Linkage      { return n.linkage }
func (n *Node) NumChildren() int      { return len(n.children) }
func (n *Node) Child(i int) *Node     { return n.children[i] }
func (n *Node) HasChildren() bool     { return len(n.children) > 0 }
func (n *Node) IsDeclaration() bool   { return n.kind.IsDeclaration() }
func (n *Node) Is(kinds ...Kind) bool { return containsKind(kinds, n.kind) }

// Children returns the direct children in source order. The slice is a copy.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Token returns the raw token text of a literal node. ok is false for
// non-literals and for literals built without a token.
func (n *Node) Token() (text string, ok bool) {
	if !n.kind.IsLiteral() || n.token == "" {
		return "", false
	}
	return n.token, true
}

func (n *Node) String() string {
	return fmt.Sprintf("%s %s %s", n.kind, n.spelling, n.displayName)
}

func containsKind(kinds []Kind, k Kind) bool {
	for _, candidate := range kinds {
		if candidate == k {
			return true
		}
	}
	return false
}
