package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostprobe/internal/logger"
)

type fakeModule struct {
	name  string
	err   error
	delay time.Duration
	file  string
	calls *int32
}

func (f fakeModule) Name() string { return f.name }

func (f fakeModule) Collect(ctx context.Context, outDir string) error {
	if f.calls != nil {
		atomic.AddInt32(f.calls, 1)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.file != "" {
		if err := os.WriteFile(filepath.Join(outDir, f.file), []byte("{}"), 0644); err != nil {
			return err
		}
	}
	return f.err
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestCollectAllOrderAndArtifacts(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := NewRun(2, time.Second, dir, fixedClock{now}, logger.Discard())
	r.Register(fakeModule{name: "Host Info", file: "hostinfo.json", delay: 20 * time.Millisecond})
	r.Register(fakeModule{name: "firewall", file: "firewall.json"})

	results, err := r.CollectAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{"Host Info", "firewall"}, r.Names())
	assert.Equal(t, "Host Info", results[0].Module)
	assert.Equal(t, "firewall", results[1].Module)
	for _, res := range results {
		assert.True(t, res.OK)
		assert.Empty(t, res.Error)
		assert.Equal(t, now, res.StartedAt)
	}

	assert.FileExists(t, filepath.Join(dir, "host_info", "hostinfo.json"))
	assert.FileExists(t, filepath.Join(dir, "firewall", "firewall.json"))
}

func TestCollectAllAggregatesFailures(t *testing.T) {
	r := NewRun(1, time.Second, t.TempDir(), nil, logger.Discard())
	r.Register(fakeModule{name: "a", err: errors.New("boom")})
	r.Register(fakeModule{name: "b"})
	r.Register(fakeModule{name: "c", err: errors.New("bang")})

	results, err := r.CollectAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module a failed: boom")
	assert.Contains(t, err.Error(), "and 1 other module errors")
	require.Len(t, results, 3)
	assert.False(t, results[0].OK)
	assert.True(t, results[1].OK)
	assert.Equal(t, "bang", results[2].Error)
}

func TestCollectAllModuleTimeout(t *testing.T) {
	r := NewRun(1, 10*time.Millisecond, t.TempDir(), nil, logger.Discard())
	r.Register(fakeModule{name: "slow", delay: time.Second})

	results, err := r.CollectAll(context.Background())
	require.Error(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].OK)
	assert.Equal(t, context.DeadlineExceeded.Error(), results[0].Error)
}

func TestCollectAllRunsEveryModuleOnce(t *testing.T) {
	var calls int32
	r := NewRun(0, time.Second, t.TempDir(), nil, logger.Discard())
	for _, name := range []string{"a", "b", "c", "d"} {
		r.Register(fakeModule{name: name, calls: &calls})
	}

	_, err := r.CollectAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestCollectAllEmpty(t *testing.T) {
	r := NewRun(2, time.Second, t.TempDir(), nil, logger.Discard())
	results, err := r.CollectAll(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"firewall":      "firewall",
		"Host Info":     "host_info",
		"db-01.example": "db-01_example",
		"__x__":         "x",
		"":              "unknown",
		"***":           "unknown",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeName(in), in)
	}
}

func TestTempDirLifecycle(t *testing.T) {
	dir, err := CreateTempDir()
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(dir), "hostprobe_")
	assert.DirExists(t, dir)

	require.NoError(t, RemoveTempDir(dir))
	assert.NoDirExists(t, dir)
	assert.NoError(t, RemoveTempDir(""))
}
