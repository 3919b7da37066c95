package commands

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlpath/internal/cli/output"
	"github.com/leapstack-labs/sqlpath/internal/cli/testutil"
	"github.com/leapstack-labs/sqlpath/internal/config"
	logtest "github.com/leapstack-labs/sqlpath/internal/testutil"
)

func newWatchPrinter(t *testing.T, path string) (*watchPrinter, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	cc := &CommandContext{
		Cfg:      config.Default(),
		Logger:   logtest.NewTestLogger(t),
		Renderer: output.NewRendererWithTTY(out, &bytes.Buffer{}, false, output.ModeMarkdown),
	}
	return &watchPrinter{cc: cc, path: path}, out
}

func TestWatchPrinter_BannerPrecedesReport(t *testing.T) {
	path := testutil.WriteSQLFile(t, "chain.sql", testutil.ChainSQL)
	wp, out := newWatchPrinter(t, path)

	wp.print("")
	assert.True(t, strings.HasPrefix(out.String(), "# "+path+"\n"), out.String())

	out.Reset()
	wp.print("changed at 12:00:00")
	assert.True(t, strings.HasPrefix(out.String(), "\n_changed at 12:00:00_\n# "+path+"\n"), out.String())
}

func TestWatchPrinter_ConcurrentPrintsDoNotInterleave(t *testing.T) {
	path := testutil.WriteSQLFile(t, "chain.sql", testutil.ChainSQL)
	wp, out := newWatchPrinter(t, path)

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			wp.print(fmt.Sprintf("change %d", i))
		}(i)
	}
	wg.Wait()

	blocks := strings.Split(out.String(), "\n_change ")
	require.Len(t, blocks, n+1)
	assert.Empty(t, blocks[0])
	for _, block := range blocks[1:] {
		_, report, ok := strings.Cut(block, "_\n")
		require.True(t, ok, block)
		assert.True(t, strings.HasPrefix(report, "# "+path+"\n"), block)
		assert.Equal(t, 1, strings.Count(block, "# "+path+"\n"), block)
		assert.Equal(t, 1, strings.Count(block, "## Lineage"), block)
	}
}

func TestWatchPrinter_ParseErrorGoesToStderr(t *testing.T) {
	path := testutil.WriteSQLFile(t, "bad.sql", testutil.BrokenSQL)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	wp := &watchPrinter{path: path, cc: &CommandContext{
		Cfg:      config.Default(),
		Logger:   logtest.NewTestLogger(t),
		Renderer: output.NewRendererWithTTY(out, errOut, false, output.ModeMarkdown),
	}}

	wp.print("changed")
	assert.Equal(t, "\n_changed_\n", out.String())
	assert.Contains(t, errOut.String(), "error: failed to parse "+path)
}
