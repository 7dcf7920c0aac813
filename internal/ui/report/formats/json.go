package formats

import (
	"ccheck/internal/engine/report"
	"encoding/json"
)

type jsonReport struct {
	File  string     `json:"file"`
	Total int        `json:"total"`
	Rules []jsonRule `json:"rules"`
}

type jsonRule struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Total       int              `json:"total"`
	Summary     string           `json:"summary,omitempty"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
}

type jsonDiagnostic struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Subject  string `json:"subject"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Snippet  string `json:"snippet,omitempty"`
}

// GenerateJSON renders rep as an indented JSON document, rules in report
// order. Empty rules keep an empty diagnostics array.
func GenerateJSON(rep report.Report) ([]byte, error) {
	doc := jsonReport{
		File:  rep.File,
		Total: rep.Total(),
		Rules: make([]jsonRule, 0, len(rep.Results)),
	}
	for _, res := range rep.Results {
		rule := jsonRule{
			ID:          string(res.Rule),
			Title:       res.Title,
			Total:       res.Total,
			Summary:     res.Summary,
			Diagnostics: make([]jsonDiagnostic, 0, len(res.Diagnostics)),
		}
		for _, d := range res.Diagnostics {
			rule.Diagnostics = append(rule.Diagnostics, jsonDiagnostic{
				Severity: string(d.Severity),
				Message:  d.Message,
				Subject:  d.Subject,
				File:     d.Location.File,
				Line:     d.Location.Line,
				Column:   d.Location.Column,
				Snippet:  d.Snippet,
			})
		}
		doc.Rules = append(doc.Rules, rule)
	}
	return json.MarshalIndent(doc, "", "  ")
}
