package rules

import (
	"ccheck/internal/engine/ast"
	"fmt"
)

const (
	argcName = "argc"
	argvName = "argv"
)

// UncheckedArgv reports argv references that precede any argc validation
// among a function's direct children. Validation is approximated: a
// parameter named argc, or any if-statement, counts as a check whether or
// not the condition mentions argc.
type UncheckedArgv struct{}

func (UncheckedArgv) ID() ID { return IDUncheckedArgv }

func (UncheckedArgv) Title() string { return "Detecting 'argv' access before 'argc' check" }

// Check gives every function a fresh scan, so a nested function's check
// never feeds back into the state of the function enclosing it.
func (r UncheckedArgv) Check(root *ast.Node) []Diagnostic {
	var diags []Diagnostic
	ast.Walk(root, func(n *ast.Node) {
		if n.Kind() != ast.KindFunctionDecl {
			return
		}
		scan := argvScan{rule: r.ID()}
		scan.run(n)
		diags = append(diags, scan.diags...)
	})
	return diags
}

// Summary answers whether any unchecked argv access was found.
func (UncheckedArgv) Summary(diags []Diagnostic) string {
	if len(diags) > 0 {
		return "Any found: yes"
	}
	return "Any found: no"
}

// argvScan is the per-function state of the unchecked-argv rule.
type argvScan struct {
	rule    ID
	checked bool
	diags   []Diagnostic
}

// run scans only the direct children of fn. The order matters: a check
// gates every argv reference after it but none before it.
func (s *argvScan) run(fn *ast.Node) {
	for i := 0; i < fn.NumChildren(); i++ {
		child := fn.Child(i)
		switch child.Kind() {
		case ast.KindParmDecl:
			if child.Spelling() == argcName {
				s.checked = true
			}
		case ast.KindDeclRefExpr:
			if child.Spelling() == argvName && !s.checked {
				msg := fmt.Sprintf("Warning: 'argv' accessed before 'argc' check, Line: %d", child.Location().Line)
				s.diags = append(s.diags, warningAt(s.rule, child, argvName, msg))
			}
		case ast.KindIfStmt:
			s.checked = true
		}
	}
}
