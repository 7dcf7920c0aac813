package source

import (
	"ccheck/internal/core/errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Resolver gives line-oriented random access to source files on disk. Each
// file is read once and indexed by line start offsets.
type Resolver struct {
	mu    sync.RWMutex
	files map[string]*indexedFile
}

type indexedFile struct {
	content []byte
	index   lineIndex
}

func NewResolver() *Resolver {
	return &Resolver{files: make(map[string]*indexedFile)}
}

// Line returns the text of the 1-based line in path without its line ending.
// Failures are SOURCE_READ errors.
func (r *Resolver) Line(path string, line int) (string, error) {
	f, err := r.load(path)
	if err != nil {
		return "", err
	}
	start, end, ok := f.index.bounds(line, len(f.content))
	if !ok {
		err := errors.New(errors.CodeSourceRead, fmt.Sprintf("line %d out of range (file has %d lines)", line, f.index.lines()))
		err = errors.AddContext(err, errors.CtxPath, path)
		return "", err
	}
	text := string(f.content[start:end])
	return strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r"), nil
}

// Forget drops the cached copy of path.
func (r *Resolver) Forget(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, path)
}

func (r *Resolver) load(path string) (*indexedFile, error) {
	r.mu.RLock()
	f, ok := r.files[path]
	r.mu.RUnlock()
	if ok {
		return f, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		wrapped := errors.Wrap(err, errors.CodeSourceRead, "failed to reopen source file")
		return nil, errors.AddContext(wrapped, errors.CtxPath, path)
	}

	f = &indexedFile{content: content, index: buildLineIndex(content)}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.files[path]; ok {
		return existing, nil
	}
	r.files[path] = f
	return f, nil
}

type lineIndex struct {
	starts []int
}

func buildLineIndex(content []byte) lineIndex {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	// A trailing newline terminates the last line; it does not open a new one.
	if len(content) > 0 && starts[len(starts)-1] == len(content) {
		starts = starts[:len(starts)-1]
	}
	if len(content) == 0 {
		starts = nil
	}
	return lineIndex{starts: starts}
}

func (i lineIndex) lines() int {
	return len(i.starts)
}

func (i lineIndex) bounds(line, size int) (int, int, bool) {
	if line < 1 || line > len(i.starts) {
		return 0, 0, false
	}
	start := i.starts[line-1]
	end := size
	if line < len(i.starts) {
		end = i.starts[line]
	}
	return start, end, true
}
