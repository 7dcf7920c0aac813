package rules

import (
	"ccheck/internal/core/errors"
	"ccheck/internal/engine/ast"
	"ccheck/internal/shared/observability"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
)

// LineSource returns one line of original source text.
type LineSource interface {
	Line(path string, line int) (string, error)
}

// MagicNumbers flags integer literals other than 0, 1 and 2. Literals on a
// line that mentions argv are treated as argv indexing and left alone.
type MagicNumbers struct {
	lines LineSource
}

func NewMagicNumbers(lines LineSource) *MagicNumbers {
	return &MagicNumbers{lines: lines}
}

func (*MagicNumbers) ID() ID { return IDMagicNumber }

func (*MagicNumbers) Title() string { return "Detecting any numeric constants" }

func (r *MagicNumbers) Check(root *ast.Node) []Diagnostic {
	var diags []Diagnostic
	ast.Walk(root, func(n *ast.Node) {
		if n.Kind() != ast.KindIntegerLiteral {
			return
		}
		d, err := r.inspect(n)
		if err != nil {
			reason := string(errors.CodeOf(err))
			observability.SkippedNodesTotal.WithLabelValues(string(r.ID()), reason).Inc()
			slog.Debug("skipping integer literal", "location", n.Location().String(), "error", err)
			return
		}
		if d != nil {
			diags = append(diags, *d)
		}
	})
	return diags
}

// inspect returns nil, nil for literals that are legitimately not reported.
func (r *MagicNumbers) inspect(n *ast.Node) (*Diagnostic, error) {
	value, err := literalValue(n)
	if err != nil {
		return nil, err
	}
	if isConventionalIndex(value) {
		return nil, nil
	}

	loc := n.Location()
	if !loc.HasFile() {
		return nil, nil
	}
	if r.lines == nil {
		return nil, errors.New(errors.CodeSourceRead, "no source resolver configured")
	}
	text, err := r.lines.Line(loc.File, loc.Line)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(text)
	if strings.Contains(code, argvName) {
		return nil, nil
	}

	msg := fmt.Sprintf("Numeric constant: %s, Line: %d, Code: '%s'", value.String(), loc.Line, code)
	d := warningAt(r.ID(), n, value.String(), msg)
	d.Snippet = code
	return &d, nil
}

// literalValue decodes the raw token as a base-10 integer. Prefixed or
// suffixed spellings such as 0x10 or 10u do not decode.
func literalValue(n *ast.Node) (*big.Int, error) {
	token, ok := n.Token()
	if !ok {
		return nil, errors.New(errors.CodeTokenDecode, "literal has no tokens")
	}
	value, ok := new(big.Int).SetString(token, 10)
	if !ok {
		err := errors.New(errors.CodeTokenDecode, "literal is not a decimal integer")
		return nil, errors.AddContext(err, errors.CtxToken, token)
	}
	return value, nil
}

func isConventionalIndex(v *big.Int) bool {
	return v.IsInt64() && v.Int64() >= 0 && v.Int64() <= 2
}
