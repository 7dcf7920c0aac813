package source

import (
	"ccheck/internal/core/errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.c")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolverLine(t *testing.T) {
	path := writeFile(t, "int a;\n  return 42;  \r\nlast")
	r := NewResolver()

	tests := []struct {
		line int
		want string
	}{
		{1, "int a;"},
		{2, "  return 42;  "},
		{3, "last"},
	}
	for _, tt := range tests {
		got, err := r.Line(path, tt.line)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestResolverLine_OutOfRange(t *testing.T) {
	path := writeFile(t, "one\ntwo\n")
	r := NewResolver()

	for _, line := range []int{0, -1, 3} {
		_, err := r.Line(path, line)
		require.Error(t, err, "line %d", line)
		assert.True(t, errors.IsCode(err, errors.CodeSourceRead))
	}
}

func TestResolverLine_EmptyFile(t *testing.T) {
	path := writeFile(t, "")
	_, err := NewResolver().Line(path, 1)
	assert.True(t, errors.IsCode(err, errors.CodeSourceRead))
}

func TestResolverLine_MissingFile(t *testing.T) {
	_, err := NewResolver().Line(filepath.Join(t.TempDir(), "gone.c"), 1)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeSourceRead))
}

func TestResolver_CachesUntilForget(t *testing.T) {
	path := writeFile(t, "first\n")
	r := NewResolver()

	got, err := r.Line(path, 1)
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	require.NoError(t, os.WriteFile(path, []byte("second\n"), 0o644))
	got, err = r.Line(path, 1)
	require.NoError(t, err)
	assert.Equal(t, "first", got, "cached content should be served")

	r.Forget(path)
	got, err = r.Line(path, 1)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}
