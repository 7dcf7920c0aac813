// # internal/engine/parser/pool.go
package parser

import (
	"ccheck/internal/core/errors"
	"ccheck/internal/shared/observability"
	"sync"
	"sync/atomic"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// parserPool hands out tree-sitter parsers bound to one grammar. A parser
// is reset before it goes back, so no tree of a previous file stays
// reachable through the pool.
//
//	sp, err := pool.get()
//	if err != nil { ... }
//	defer pool.put(sp)
type parserPool struct {
	lang   *sitter.Language
	pool   sync.Pool
	leased atomic.Int64
}

func newParserPool(lang *sitter.Language) *parserPool {
	return &parserPool{
		lang: lang,
		pool: sync.Pool{
			New: func() any { return sitter.NewParser() },
		},
	}
}

// get returns a parser for the pool's grammar. The language is (re)applied
// on every lease since a caller may have reset it; a grammar whose ABI the
// runtime rejects is a PARSE_FAILURE.
func (p *parserPool) get() (*sitter.Parser, error) {
	sp := p.pool.Get().(*sitter.Parser)
	if err := sp.SetLanguage(p.lang); err != nil {
		sp.Close()
		return nil, errors.Wrap(err, errors.CodeParseFailure, "failed to load the C grammar")
	}
	observability.ParserLeases.Set(float64(p.leased.Add(1)))
	return sp, nil
}

// put gives sp back. sp must not be used afterwards.
func (p *parserPool) put(sp *sitter.Parser) {
	if sp == nil {
		return
	}
	observability.ParserLeases.Set(float64(p.leased.Add(-1)))
	sp.Reset()
	p.pool.Put(sp)
}

// leases is the number of parsers currently handed out.
func (p *parserPool) leases() int {
	return int(p.leased.Load())
}
