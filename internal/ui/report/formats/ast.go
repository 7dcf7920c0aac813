package formats

import (
	"bufio"
	"ccheck/internal/engine/ast"
	"fmt"
	"io"
	"strings"
)

// WriteASTDump prints one line per node in walk order, indented two spaces
// per level: "KIND spelling displayname".
func WriteASTDump(w io.Writer, root *ast.Node) error {
	bw := bufio.NewWriter(w)
	ast.WalkDepth(root, func(n *ast.Node, depth int) {
		fmt.Fprintf(bw, "%s%s %s %s\n", strings.Repeat("  ", depth), n.Kind(), n.Spelling(), n.DisplayName())
	})
	return bw.Flush()
}
