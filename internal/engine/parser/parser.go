// # internal/engine/parser/parser.go
package parser

import (
	"ccheck/internal/core/errors"
	"ccheck/internal/engine/ast"
	"ccheck/internal/shared/observability"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Parser turns a C source file into an ast.Node tree. It is safe for
// concurrent use.
type Parser struct {
	pool *parserPool
}

func NewParser() *Parser {
	return &Parser{pool: newParserPool(cLanguage())}
}

// ParseFile checks that path is an existing regular file, then parses it.
// A missing path is FILE_NOT_FOUND; a tree-sitter failure is PARSE_FAILURE.
func (p *Parser) ParseFile(ctx context.Context, path string) (*ast.Node, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		nf := errors.New(errors.CodeFileNotFound, fmt.Sprintf("The file '%s' does not exist.", path))
		return nil, errors.AddContext(nf, errors.CtxPath, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		wrapped := errors.Wrap(err, errors.CodeParseFailure, fmt.Sprintf("failed to read '%s'", path))
		return nil, errors.AddContext(wrapped, errors.CtxPath, path)
	}
	return p.Parse(ctx, path, content)
}

// Parse parses content as the file at path. Syntax errors inside the file do
// not fail the parse; they surface as UNEXPOSED_EXPR nodes.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*ast.Node, error) {
	_, span := observability.Tracer.Start(ctx, "parser.Parse", trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	if DetectLanguage(path) == "" {
		slog.Debug("unrecognised extension, parsing as C", "path", path)
	}
	timer := prometheus.NewTimer(observability.ParsingDuration.WithLabelValues(LanguageC))
	defer timer.ObserveDuration()

	sp, err := p.pool.get()
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	defer p.pool.put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		failure := errors.New(errors.CodeParseFailure, "Failed to create translation unit from file.")
		return nil, errors.AddContext(failure, errors.CtxPath, path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		failure := errors.New(errors.CodeParseFailure, "Failed to create translation unit from file.")
		return nil, errors.AddContext(failure, errors.CtxPath, path)
	}
	if root.HasError() {
		slog.Debug("source contains syntax errors", "path", path)
	}

	unit, err := newConverter(path, content).translationUnit(root)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}

	nodes := ast.Count(unit)
	observability.ASTNodes.Set(float64(nodes))
	span.SetAttributes(attribute.Int("nodes", nodes))
	slog.Debug("parsed translation unit", "path", path, "nodes", nodes)
	return unit, nil
}
