package rules

import (
	"ccheck/internal/engine/ast"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// SingleCharNames flags declarations of any category whose name is exactly
// one code point long.
type SingleCharNames struct{}

func (SingleCharNames) ID() ID { return IDSingleCharName }

func (SingleCharNames) Title() string { return "Single-character variable or function names" }

func (r SingleCharNames) Check(root *ast.Node) []Diagnostic {
	var diags []Diagnostic
	ast.Walk(root, func(n *ast.Node) {
		if !n.IsDeclaration() || utf8.RuneCountInString(n.Spelling()) != 1 {
			return
		}
		msg := fmt.Sprintf("Name: %s, Line: %d", n.Spelling(), n.Location().Line)
		diags = append(diags, warningAt(r.ID(), n, n.Spelling(), msg))
	})
	return diags
}

// CapitalizedLocals flags variables starting with an uppercase letter unless
// they have external linkage.
type CapitalizedLocals struct{}

func (CapitalizedLocals) ID() ID { return IDCapitalizedLocal }

func (CapitalizedLocals) Title() string { return "Non-global capitalized variables" }

func (r CapitalizedLocals) Check(root *ast.Node) []Diagnostic {
	var diags []Diagnostic
	ast.Walk(root, func(n *ast.Node) {
		if n.Kind() != ast.KindVarDecl || n.Linkage() == ast.LinkageExternal {
			return
		}
		if !startsUpper(n.Spelling()) {
			return
		}
		msg := fmt.Sprintf("Non-global capitalized variable: %s, Line: %d", n.Spelling(), n.Location().Line)
		diags = append(diags, warningAt(r.ID(), n, n.Spelling(), msg))
	})
	return diags
}

func startsUpper(name string) bool {
	if name == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(first)
}
