package rules

import (
	"ccheck/internal/engine/ast"
)

// ID tags the rule that produced a diagnostic.
type ID string

const (
	IDSingleCharName   ID = "single-char-name"
	IDCapitalizedLocal ID = "capitalized-local"
	IDUncheckedArgv    ID = "unchecked-argv"
	IDMagicNumber      ID = "magic-number"
	IDUnsafeFunction   ID = "unsafe-function"
)

// Order is the canonical presentation order of the built-in rules.
var Order = []ID{
	IDSingleCharName,
	IDCapitalizedLocal,
	IDUncheckedArgv,
	IDMagicNumber,
	IDUnsafeFunction,
}

type Severity string

const (
	SeverityNote    Severity = "note"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is a single finding. It is a value and does not point back
// into the tree it was found in.
type Diagnostic struct {
	RuleID   ID
	Severity Severity
	Message  string
	Location ast.Location
	// Subject is the offending name or value.
	Subject string
	// Snippet is the trimmed source line, when a rule looked it up.
	Snippet string
}

// Rule is one independent analysis pass. Check must not retain or modify
// the tree and must return diagnostics in discovery order.
type Rule interface {
	ID() ID
	Title() string
	Check(root *ast.Node) []Diagnostic
}

// Summarizer is implemented by rules that print an extra summary fact
// besides their total. It is derived from the rule's own diagnostics.
type Summarizer interface {
	Summary(diags []Diagnostic) string
}

// RuleResult pairs a rule's diagnostics with their count.
type RuleResult struct {
	Rule        ID
	Title       string
	Diagnostics []Diagnostic
	Total       int
	Summary     string
}

func newResult(r Rule, diags []Diagnostic) RuleResult {
	return RuleResult{
		Rule:        r.ID(),
		Title:       r.Title(),
		Diagnostics: diags,
		Total:       len(diags),
	}
}

func warningAt(id ID, n *ast.Node, subject, message string) Diagnostic {
	return Diagnostic{
		RuleID:   id,
		Severity: SeverityWarning,
		Message:  message,
		Location: n.Location(),
		Subject:  subject,
	}
}
