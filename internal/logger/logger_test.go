package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture redirects logger output into a buffer and restores the
// defaults when the test ends.
func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestVerboseToggle(t *testing.T) {
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestVerboseOutput(t *testing.T) {
	tests := []struct {
		name string
		log  func()
		want string
	}{
		{
			name: "debug",
			log:  func() { Debug("opening %s", "runar.db") },
			want: "[DEBUG] opening runar.db\n",
		},
		{
			name: "info",
			log:  func() { Info("applied %d migration(s)", 2) },
			want: "[INFO] applied 2 migration(s)\n",
		},
		{
			name: "sql trace",
			log:  func() { SQL("SELECT * FROM users WHERE id = :id") },
			want: "[SQL] SELECT * FROM users WHERE id = :id\n",
		},
		{
			name: "section",
			log:  func() { Section("SQLite Service Start") },
			want: "\n=== SQLite Service Start ===\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log()
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestQuietUnlessWarning(t *testing.T) {
	buf := capture(t, false)

	Debug("generated DDL: %s", "CREATE TABLE users (id INTEGER)")
	Info("service started")
	SQL("DELETE FROM users")
	Section("SQLite Service Start")
	require.Zero(t, buf.Len(), "non-warning output must be suppressed when not verbose")

	Warn("external change watcher unavailable: %v", os.ErrPermission)
	assert.Equal(t, "[WARN] external change watcher unavailable: permission denied\n", buf.String())
}

func TestConcurrentUse(t *testing.T) {
	capture(t, true)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			SetVerbose(true)
			SQL("INSERT INTO users (id) VALUES (%d)", n)
			IsVerbose()
			Debug("worker %d done", n)
		}(i)
	}
	wg.Wait()
}
