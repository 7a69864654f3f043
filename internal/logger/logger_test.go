package logger

import (
	"bytes"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLog redirects the standard logger for the rest of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

func TestEnvLogger_DebugFollowsEnv(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"1", "[link] dialing ws://pi.local:8001/\n"},
		{"yes", "[link] dialing ws://pi.local:8001/\n"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run("env="+tt.env, func(t *testing.T) {
			buf := captureLog(t)
			t.Setenv(DebugEnv, tt.env)

			NewEnvLogger("[link]").Debug("dialing %s", "ws://pi.local:8001/")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestEnvLogger_Levels(t *testing.T) {
	buf := captureLog(t)
	l := NewEnvLogger("[metrics]")

	l.Info("listening on %s", ":9109")
	l.Warn("slow scrape")
	l.Error("serve: %v", "address in use")

	assert.Equal(t,
		"[metrics] listening on :9109\n"+
			"[metrics] WARN: slow scrape\n"+
			"[metrics] ERROR: serve: address in use\n",
		buf.String())
}

func TestEnvLogger_NoPrefix(t *testing.T) {
	buf := captureLog(t)
	NewEnvLogger("").Info("plain")
	assert.Equal(t, "plain\n", buf.String())
}

func TestEnvLogger_PercentInArgs(t *testing.T) {
	buf := captureLog(t)
	NewEnvLogger("[dashboard]").Info("alert %q", "gas at 100%")
	assert.Equal(t, "[dashboard] alert \"gas at 100%\"\n", buf.String())
}

func TestNoop(t *testing.T) {
	buf := captureLog(t)
	l := Noop()
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	assert.Empty(t, buf.String())
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Debug("d %d", 1)
	r.Info("i")
	r.Warn("dropped frame: %s", "bad json")

	entries := r.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{Level: LevelWarn, Message: "dropped frame: bad json"}, entries[2])
	assert.True(t, r.HasLevel(LevelDebug))
	assert.False(t, r.HasLevel(LevelError))

	r.Reset()
	assert.Empty(t, r.Entries())
	assert.False(t, r.HasLevel(LevelWarn))
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Info("worker %d line %d", i, j)
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, r.Entries(), 400)
}
