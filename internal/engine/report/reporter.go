package report

import (
	"ccheck/internal/core/errors"
	"ccheck/internal/engine/rules"
	"fmt"
	"sort"
	"sync"
)

// Report is the rule-grouped outcome of one analysis run.
type Report struct {
	File    string
	Results []rules.RuleResult
}

// Total is the number of diagnostics across all rules.
func (r Report) Total() int {
	total := 0
	for _, res := range r.Results {
		total += res.Total
	}
	return total
}

// Result returns the result of rule id.
func (r Report) Result(id rules.ID) (rules.RuleResult, bool) {
	for _, res := range r.Results {
		if res.Rule == id {
			return res, true
		}
	}
	return rules.RuleResult{}, false
}

// Diagnostics flattens all findings in rule order.
func (r Report) Diagnostics() []rules.Diagnostic {
	var out []rules.Diagnostic
	for _, res := range r.Results {
		out = append(out, res.Diagnostics...)
	}
	return out
}

// Reporter collects rule results, possibly from several goroutines, and
// orders them by rule identity rather than by arrival.
type Reporter struct {
	mu      sync.Mutex
	rank    map[rules.ID]int
	results []rules.RuleResult
}

// NewReporter orders results by order; unknown rules sort after known ones,
// by ID.
func NewReporter(order []rules.ID) *Reporter {
	rank := make(map[rules.ID]int, len(order))
	for i, id := range order {
		if _, dup := rank[id]; !dup {
			rank[id] = i
		}
	}
	return &Reporter{rank: rank}
}

func (r *Reporter) Add(res rules.RuleResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

// Report returns the collected results for file. Totals are recomputed from
// the diagnostics; a mismatching self-reported total is an internal error.
func (r *Reporter) Report(file string) (Report, error) {
	r.mu.Lock()
	results := append([]rules.RuleResult(nil), r.results...)
	r.mu.Unlock()

	sort.SliceStable(results, func(i, j int) bool {
		ri, iKnown := r.rank[results[i].Rule]
		rj, jKnown := r.rank[results[j].Rule]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return results[i].Rule < results[j].Rule
		}
	})

	for i := range results {
		if results[i].Total != len(results[i].Diagnostics) {
			err := errors.New(errors.CodeInternal, fmt.Sprintf("rule reported %d findings but produced %d", results[i].Total, len(results[i].Diagnostics)))
			return Report{}, errors.AddContext(err, errors.CtxRule, string(results[i].Rule))
		}
	}

	return Report{File: file, Results: results}, nil
}
