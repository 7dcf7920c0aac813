package rules

import (
	"ccheck/internal/engine/ast"
	"ccheck/internal/shared/observability"
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Sink receives finished rule results. Implementations must be safe for
// concurrent use when the engine runs rules in parallel.
type Sink interface {
	Add(RuleResult)
}

type Options struct {
	// Parallel runs every rule in its own goroutine. Results may reach the
	// sink in any order; each rule's own diagnostic order is unaffected.
	Parallel bool
}

// Engine runs a fixed set of rules over one shared tree.
type Engine struct {
	rules []Rule
	opts  Options
}

func NewEngine(opts Options, rules ...Rule) *Engine {
	return &Engine{rules: append([]Rule(nil), rules...), opts: opts}
}

// Dependencies holds the collaborators the built-in rules need.
type Dependencies struct {
	Lines    LineSource
	DenyList *DenyList
}

// DefaultRules returns the five built-in rules in canonical order.
func DefaultRules(deps Dependencies) []Rule {
	deny := deps.DenyList
	if deny == nil {
		deny = DefaultDenyList()
	}
	return []Rule{
		SingleCharNames{},
		CapitalizedLocals{},
		UncheckedArgv{},
		NewMagicNumbers(deps.Lines),
		NewUnsafeFunctions(deny),
	}
}

func (e *Engine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Run checks root with every rule and hands each result to sink. The only
// error is ctx cancellation.
func (e *Engine) Run(ctx context.Context, root *ast.Node, sink Sink) error {
	ctx, span := observability.Tracer.Start(ctx, "engine.Run",
		trace.WithAttributes(attribute.Int("rules", len(e.rules)), attribute.Bool("parallel", e.opts.Parallel)))
	defer span.End()

	if !e.opts.Parallel {
		for _, rule := range e.rules {
			if err := ctx.Err(); err != nil {
				return err
			}
			sink.Add(runRule(ctx, rule, root))
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, rule := range e.rules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sink.Add(runRule(gctx, rule, root))
			return nil
		})
	}
	return g.Wait()
}

func runRule(ctx context.Context, rule Rule, root *ast.Node) RuleResult {
	id := string(rule.ID())
	_, span := observability.Tracer.Start(ctx, "rule."+id)
	defer span.End()

	timer := prometheus.NewTimer(observability.RuleDuration.WithLabelValues(id))
	defer timer.ObserveDuration()

	result := newResult(rule, rule.Check(root))
	if s, ok := rule.(Summarizer); ok {
		result.Summary = s.Summary(result.Diagnostics)
	}

	observability.DiagnosticsTotal.WithLabelValues(id).Add(float64(result.Total))
	span.SetAttributes(attribute.Int("diagnostics", result.Total))
	slog.Debug("rule finished", "rule", id, "diagnostics", result.Total)
	return result
}
