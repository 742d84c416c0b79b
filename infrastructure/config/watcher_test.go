package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcher_ReloadsLogLevel(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "log_level: info\nstore:\n  driver: memory\n")
	current, err := LoadFile(path)
	require.NoError(t, err)

	w, err := NewWatcher(path, current, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan *Config, 1)
	w.OnChange(func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})
	w.Start()

	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nstore:\n  driver: memory\n"), 0o644))

	select {
	case c := <-changed:
		assert.Equal(t, "debug", c.LogLevel)
		assert.Equal(t, "debug", w.Current().LogLevel)
	case <-time.After(5 * time.Second):
		t.Fatal("configuration change not observed")
	}
}

func TestWatcher_KeepsCurrentOnInvalidFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "log_level: info\nstore:\n  driver: memory\n")
	current, err := LoadFile(path)
	require.NoError(t, err)

	w, err := NewWatcher(path, current, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o644))
	w.reload()

	assert.Equal(t, "info", w.Current().LogLevel)
}

func TestWatcher_StopTwice(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "store:\n  driver: memory\n")
	current, err := LoadFile(path)
	require.NoError(t, err)

	w, err := NewWatcher(path, current, zap.NewNop())
	require.NoError(t, err)
	w.Start()

	assert.NotPanics(t, func() {
		w.Stop()
		w.Stop()
	})
}

func TestNewWatcher_MissingFile(t *testing.T) {
	_, err := NewWatcher("/nonexistent/config.yaml", Default(), zap.NewNop())
	assert.Error(t, err)
}
