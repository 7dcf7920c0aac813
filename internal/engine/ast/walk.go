package ast

// Walk calls visit for every node under root, root included, in depth-first
// pre-order with children left to right. Each node is visited exactly once.
// An explicit stack is used so deeply nested input cannot exhaust the
// goroutine stack.
func Walk(root *Node, visit func(*Node)) {
	WalkDepth(root, func(n *Node, _ int) {
		visit(n)
	})
}

type frame struct {
	node  *Node
	depth int
}

// WalkDepth is Walk with the depth of each node (root is 0).
func WalkDepth(root *Node, visit func(n *Node, depth int)) {
	if root == nil {
		return
	}
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(top.node, top.depth)

		// Push in reverse so the leftmost child is popped first.
		for i := len(top.node.children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: top.node.children[i], depth: top.depth + 1})
		}
	}
}

// Count returns the number of nodes under root, root included.
func Count(root *Node) int {
	total := 0
	Walk(root, func(*Node) { total++ })
	return total
}

// Filter returns every node under root whose kind is one of kinds, in walk order.
func Filter(root *Node, kinds ...Kind) []*Node {
	var out []*Node
	Walk(root, func(n *Node) {
		if containsKind(kinds, n.kind) {
			out = append(out, n)
		}
	})
	return out
}
