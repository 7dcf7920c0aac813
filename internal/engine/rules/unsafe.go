package rules

import (
	"ccheck/internal/core/errors"
	"ccheck/internal/engine/ast"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var defaultUnsafeFunctions = []string{"atoi", "atof", "atol", "sprintf", "strtok", "gets", "strcpy", "strcat"}

// DefaultUnsafeFunctions returns a copy of the built-in deny-list.
func DefaultUnsafeFunctions() []string {
	return append([]string(nil), defaultUnsafeFunctions...)
}

// DenyList is an immutable set of callee-name patterns. Plain names match
// exactly; glob syntax (e.g. "str*cpy") is also accepted.
type DenyList struct {
	patterns []string
	matchers []glob.Glob
}

func NewDenyList(patterns []string) (*DenyList, error) {
	d := &DenyList{}
	for _, raw := range patterns {
		pattern := strings.TrimSpace(raw)
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			wrapped := errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid unsafe function pattern %q", pattern))
			return nil, wrapped
		}
		d.patterns = append(d.patterns, pattern)
		d.matchers = append(d.matchers, g)
	}
	return d, nil
}

// DefaultDenyList is the fixed list: atoi, atof, atol, sprintf, strtok,
// gets, strcpy, strcat.
func DefaultDenyList() *DenyList {
	d, err := NewDenyList(defaultUnsafeFunctions)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *DenyList) Contains(name string) bool {
	if d == nil || name == "" {
		return false
	}
	for _, m := range d.matchers {
		if m.Match(name) {
			return true
		}
	}
	return false
}

func (d *DenyList) Patterns() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.patterns...)
}

// UnsafeFunctions flags direct calls to deny-listed functions. Calls through
// pointers have no callee spelling and are not resolved.
type UnsafeFunctions struct {
	deny *DenyList
}

func NewUnsafeFunctions(deny *DenyList) *UnsafeFunctions {
	return &UnsafeFunctions{deny: deny}
}

func (*UnsafeFunctions) ID() ID { return IDUnsafeFunction }

func (*UnsafeFunctions) Title() string { return "Detecting unsafe function usage" }

func (r *UnsafeFunctions) Check(root *ast.Node) []Diagnostic {
	var diags []Diagnostic
	ast.Walk(root, func(n *ast.Node) {
		if n.Kind() != ast.KindCallExpr || !r.deny.Contains(n.Spelling()) {
			return
		}
		msg := fmt.Sprintf("Unsafe function used: %s, Line: %d", n.Spelling(), n.Location().Line)
		diags = append(diags, warningAt(r.ID(), n, n.Spelling(), msg))
	})
	return diags
}
