// # internal/engine/parser/pool_test.go
package parser

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserPool_Leases(t *testing.T) {
	pool := newParserPool(cLanguage())

	sp, err := pool.get()
	require.NoError(t, err)
	require.NotNil(t, sp)
	assert.Equal(t, 1, pool.leases())

	pool.put(sp)
	assert.Equal(t, 0, pool.leases())

	pool.put(nil)
	assert.Equal(t, 0, pool.leases(), "put(nil) is a no-op")
}

func TestParserPool_ParsesC(t *testing.T) {
	pool := newParserPool(cLanguage())
	sp, err := pool.get()
	require.NoError(t, err)
	defer pool.put(sp)

	tree := sp.Parse([]byte("int main(void) { return 0; }\n"), nil)
	require.NotNil(t, tree)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "translation_unit", root.Kind())
	assert.False(t, root.HasError())
}

func TestParserPool_ReappliesLanguageAfterReset(t *testing.T) {
	pool := newParserPool(cLanguage())

	sp, err := pool.get()
	require.NoError(t, err)
	sp.Reset()
	pool.put(sp)

	again, err := pool.get()
	require.NoError(t, err)
	defer pool.put(again)

	tree := again.Parse([]byte("int ok;\n"), nil)
	require.NotNil(t, tree)
	tree.Close()
}

func TestParserPool_Concurrent(t *testing.T) {
	pool := newParserPool(cLanguage())
	src := []byte("static int run(int x) { return x * 3; }\n")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				sp, err := pool.get()
				if !assert.NoError(t, err) {
					return
				}
				if tree := sp.Parse(src, nil); assert.NotNil(t, tree) {
					tree.Close()
				}
				pool.put(sp)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, pool.leases())
}
