package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, TRACE, ParseLevel("trace"))
	assert.Equal(t, DEBUG, ParseLevel("DEBUG"))
	assert.Equal(t, WARN, ParseLevel("warn"))
	assert.Equal(t, ERROR, ParseLevel("error"))
	assert.Equal(t, INFO, ParseLevel("verbose"), "неизвестный уровень")
}

func TestWriterLogger_Threshold(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("canvas", &buf, WARN)

	l.Info("скрыто %d", 1)
	l.Warn("видно %d", 2)
	l.Error("тоже видно")

	out := buf.String()
	assert.NotContains(t, out, "скрыто")
	assert.Contains(t, out, "[WARN] [canvas] видно 2")
	assert.Contains(t, out, "[ERROR] [canvas] тоже видно")
	assert.True(t, l.Enabled(ERROR))
	assert.False(t, l.Enabled(DEBUG))

	l.SetLevels(TRACE, TRACE)
	l.Trace("trace")
	assert.True(t, strings.HasSuffix(buf.String(), "[TRACE] [canvas] trace\n"))
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Info("ничего")
		l.Error("ничего")
	})
}

func TestNewLogger_WritesFile(t *testing.T) {
	dir := t.TempDir()
	old := LogDir
	LogDir = dir
	defer func() { LogDir = old }()

	l, err := NewLogger("storage")
	require.NoError(t, err)
	l.SetLevels(ERROR, DEBUG)
	l.Debug("в файл")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close(), "повторное закрытие")

	files, err := filepath.Glob(filepath.Join(dir, "storage_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] [storage] в файл")
}

func TestLoggerManager(t *testing.T) {
	old := LogDir
	LogDir = ""
	defer func() { LogDir = old }()

	lm := &LoggerManager{loggers: make(map[string]*Logger)}
	a := lm.MustGetLogger("canvas")
	b := lm.MustGetLogger("canvas")
	assert.Same(t, a, b)
	assert.ElementsMatch(t, []string{"canvas"}, lm.ListComponents())

	require.NoError(t, lm.SetLogLevel("canvas", ERROR, ERROR))
	assert.False(t, a.Enabled(WARN))
	assert.Error(t, lm.SetLogLevel("missing", INFO, INFO))

	require.NoError(t, lm.CloseAll())
	assert.Empty(t, lm.ListComponents())
}
