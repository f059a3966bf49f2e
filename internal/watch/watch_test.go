// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/mdtopdf/internal/convert"
	"github.com/pdiddy/mdtopdf/internal/runner"
	"github.com/pdiddy/mdtopdf/pkg/types"
)

// countingRunner records the input path of every pandoc run.
type countingRunner struct {
	mu     sync.Mutex
	inputs []string
}

func (r *countingRunner) Run(ctx context.Context, argv []string) (runner.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, argv[1])
	return runner.Result{}, nil
}

func (r *countingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inputs)
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func staticConfig(cfg types.ConversionConfig) ConfigSource {
	return func() (types.ConversionConfig, error) { return cfg, nil }
}

func newTestWatcher(t *testing.T, cfg types.ConversionConfig) (*Watcher, *countingRunner, *clockwork.FakeClock, *syncBuffer) {
	t.Helper()
	r := &countingRunner{}
	convClock := clockwork.NewFakeClockAt(time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC))
	conv := convert.New(r, convClock, nil)
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC))
	out := &syncBuffer{}
	return New(conv, staticConfig(cfg), clock, nil, out), r, clock, out
}

func writeMarkdown(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestIsMarkdown(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"notes.md", true},
		{"NOTES.MD", true},
		{"notes.markdown", true},
		{"notes.pdf", false},
		{"notes.md.swp", false},
		{"md", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMarkdown(tt.path))
		})
	}
}

func TestHandle_WriteConvertsAfterDebounce(t *testing.T) {
	w, r, clock, out := newTestWatcher(t, types.ConversionConfig{AutoSaveEnabled: true})
	path := writeMarkdown(t, t.TempDir(), "doc.md", "# Doc")
	ctx := context.Background()

	// A burst of writes for one save.
	for i := 0; i < 3; i++ {
		w.Handle(ctx, fsnotify.Event{Name: path, Op: fsnotify.Write})
	}
	assert.Equal(t, 0, r.count(), "nothing runs before the debounce elapses")

	clock.Advance(DefaultDebounce)
	w.Wait()

	assert.Equal(t, 1, r.count())
	assert.Contains(t, out.String(), "converted: "+path)
}

func TestHandle_IndependentFilesConvertSeparately(t *testing.T) {
	w, r, clock, _ := newTestWatcher(t, types.ConversionConfig{AutoSaveEnabled: true})
	dir := t.TempDir()
	a := writeMarkdown(t, dir, "a.md", "# A")
	b := writeMarkdown(t, dir, "b.md", "# B")

	w.Handle(context.Background(), fsnotify.Event{Name: a, Op: fsnotify.Write})
	w.Handle(context.Background(), fsnotify.Event{Name: b, Op: fsnotify.Write})
	clock.Advance(DefaultDebounce)
	w.Wait()

	assert.ElementsMatch(t, []string{a, b}, r.inputs)
}

func TestHandle_AutoSaveDisabled(t *testing.T) {
	w, r, clock, _ := newTestWatcher(t, types.ConversionConfig{AutoSaveEnabled: false})
	path := writeMarkdown(t, t.TempDir(), "doc.md", "# Doc")

	w.Handle(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Write})
	clock.Advance(DefaultDebounce)
	w.Wait()

	assert.Equal(t, 0, r.count())
}

func TestHandle_IgnoresNonMarkdown(t *testing.T) {
	w, r, clock, out := newTestWatcher(t, types.ConversionConfig{AutoSaveEnabled: true, AddFrontmatter: true})
	path := writeMarkdown(t, t.TempDir(), "doc.txt", "")

	w.Handle(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Create})
	w.Handle(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Write})
	clock.Advance(DefaultDebounce)
	w.Wait()

	assert.Equal(t, 0, r.count())
	assert.Empty(t, out.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestHandle_CreateSeedsFrontmatter(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		wantAdded bool
	}{
		{"enabled", true, true},
		{"disabled", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r, _, out := newTestWatcher(t, types.ConversionConfig{AddFrontmatter: tt.enabled})
			path := writeMarkdown(t, t.TempDir(), "new.md", "")

			w.Handle(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Create})

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAdded, strings.HasPrefix(string(data), "---\ntitle: \"Your Title\""))
			assert.Equal(t, tt.wantAdded, strings.Contains(out.String(), "Frontmatter added"))
			assert.Equal(t, 0, r.count(), "creating a file does not convert it")
		})
	}
}

func TestHandle_CreateReportsFailure(t *testing.T) {
	w, _, _, out := newTestWatcher(t, types.ConversionConfig{AddFrontmatter: true})

	w.Handle(context.Background(), fsnotify.Event{Name: filepath.Join(t.TempDir(), "vanished.md"), Op: fsnotify.Create})

	assert.Contains(t, out.String(), "Failed to add frontmatter")
}

func TestHandle_CreateOfKnownFileConverts(t *testing.T) {
	w, r, clock, out := newTestWatcher(t, types.ConversionConfig{AutoSaveEnabled: true, AddFrontmatter: true})
	path := writeMarkdown(t, t.TempDir(), "doc.md", "")
	w.track(path)

	w.Handle(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Create})
	clock.Advance(DefaultDebounce)
	w.Wait()

	assert.Equal(t, 1, r.count())
	assert.NotContains(t, out.String(), "Frontmatter added")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestHandle_CreateWithContentIsASave(t *testing.T) {
	tests := []struct {
		name      string
		autoSave  bool
		wantConvs int
	}{
		{"auto-save on", true, 1},
		{"auto-save off", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r, clock, out := newTestWatcher(t, types.ConversionConfig{AutoSaveEnabled: tt.autoSave, AddFrontmatter: true})
			path := writeMarkdown(t, t.TempDir(), "doc.md", "# Existing doc\n")

			w.Handle(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Create})
			clock.Advance(DefaultDebounce)
			w.Wait()

			assert.Equal(t, tt.wantConvs, r.count())
			assert.NotContains(t, out.String(), "Frontmatter added")
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "# Existing doc\n", string(data))
		})
	}
}

func TestHandle_SeededFileIsNotSeededAgain(t *testing.T) {
	w, _, _, out := newTestWatcher(t, types.ConversionConfig{AddFrontmatter: true})
	path := writeMarkdown(t, t.TempDir(), "new.md", "")

	w.Handle(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Create})
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	w.Handle(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Create})

	assert.Equal(t, 1, strings.Count(out.String(), "Frontmatter added"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestStopPending(t *testing.T) {
	w, r, clock, _ := newTestWatcher(t, types.ConversionConfig{AutoSaveEnabled: true})
	path := writeMarkdown(t, t.TempDir(), "doc.md", "# Doc")

	w.Handle(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Write})
	w.stopPending()
	clock.Advance(DefaultDebounce)
	w.Wait()

	assert.Equal(t, 0, r.count())
}

func TestRun_ConvertsOnSave(t *testing.T) {
	dir := t.TempDir()
	r := &countingRunner{}
	conv := convert.New(r, nil, nil)
	out := &syncBuffer{}
	w := New(conv, staticConfig(types.ConversionConfig{AutoSaveEnabled: true}), nil, nil, out)
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, []string{dir}) }()

	path := filepath.Join(dir, "doc.md")
	require.Eventually(t, func() bool {
		// Keep saving until the watcher is up and has picked up a write.
		_ = os.WriteFile(path, []byte("# Doc\n"), 0o644)
		return r.count() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, out.String(), "converted: "+path)
}

func TestRun_AtomicSave(t *testing.T) {
	tests := []struct {
		name           string
		addFrontmatter bool
	}{
		{"frontmatter on", true},
		{"frontmatter off", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			const body = "# Existing doc\n"
			path := writeMarkdown(t, dir, "doc.md", body)
			tmp := filepath.Join(dir, ".doc.md.tmp")

			r := &countingRunner{}
			conv := convert.New(r, nil, nil)
			out := &syncBuffer{}
			cfg := types.ConversionConfig{AutoSaveEnabled: true, AddFrontmatter: tt.addFrontmatter}
			w := New(conv, staticConfig(cfg), nil, nil, out)
			w.debounce = 10 * time.Millisecond

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- w.Run(ctx, []string{dir}) }()

			require.Eventually(t, func() bool {
				// Save the way editors do: write a temp file, rename it over the original.
				if err := os.WriteFile(tmp, []byte(body), 0o644); err != nil {
					return false
				}
				if err := os.Rename(tmp, path); err != nil {
					return false
				}
				return r.count() > 0
			}, 5*time.Second, 50*time.Millisecond)

			cancel()
			require.NoError(t, <-done)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, body, string(data))
			assert.NotContains(t, out.String(), "Frontmatter added")
			assert.Contains(t, out.String(), "converted: "+path)
		})
	}
}
