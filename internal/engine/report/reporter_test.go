package report

import (
	"ccheck/internal/core/errors"
	"ccheck/internal/engine/rules"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(id rules.ID, n int) rules.RuleResult {
	diags := make([]rules.Diagnostic, n)
	for i := range diags {
		diags[i] = rules.Diagnostic{RuleID: id, Severity: rules.SeverityWarning}
	}
	return rules.RuleResult{Rule: id, Diagnostics: diags, Total: n}
}

func TestReporter_OrdersByRuleIdentity(t *testing.T) {
	rep := NewReporter(rules.Order)
	rep.Add(result(rules.IDUnsafeFunction, 1))
	rep.Add(result("custom-b", 0))
	rep.Add(result(rules.IDSingleCharName, 2))
	rep.Add(result("custom-a", 0))
	rep.Add(result(rules.IDMagicNumber, 3))

	got, err := rep.Report("main.c")
	require.NoError(t, err)

	ids := make([]rules.ID, 0, len(got.Results))
	for _, res := range got.Results {
		ids = append(ids, res.Rule)
	}
	assert.Equal(t, []rules.ID{rules.IDSingleCharName, rules.IDMagicNumber, rules.IDUnsafeFunction, "custom-a", "custom-b"}, ids)
	assert.Equal(t, "main.c", got.File)
	assert.Equal(t, 6, got.Total())
	assert.Len(t, got.Diagnostics(), 6)

	magic, ok := got.Result(rules.IDMagicNumber)
	require.True(t, ok)
	assert.Equal(t, 3, magic.Total)

	_, ok = got.Result(rules.IDCapitalizedLocal)
	assert.False(t, ok)
}

func TestReporter_ConcurrentAdd(t *testing.T) {
	rep := NewReporter(rules.Order)
	var wg sync.WaitGroup
	for i := len(rules.Order) - 1; i >= 0; i-- {
		wg.Add(1)
		go func(id rules.ID, n int) {
			defer wg.Done()
			rep.Add(result(id, n))
		}(rules.Order[i], i)
	}
	wg.Wait()

	got, err := rep.Report("x.c")
	require.NoError(t, err)
	require.Len(t, got.Results, len(rules.Order))
	for i, res := range got.Results {
		assert.Equal(t, rules.Order[i], res.Rule)
		assert.Equal(t, i, res.Total)
	}
}

func TestReporter_RejectsTotalMismatch(t *testing.T) {
	rep := NewReporter(rules.Order)
	bad := result(rules.IDUnsafeFunction, 2)
	bad.Total = 3
	rep.Add(bad)

	_, err := rep.Report("x.c")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInternal))
}
