package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"DEBUG", DEBUG},
		{"debug", DEBUG},
		{"WARN", WARN},
		{"warning", WARN},
		{"ERROR", ERROR},
		{"", INFO},
		{"chatty", INFO},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestLogger_FiltersByLevelAndWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: WARN, Output: &buf})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("Plan store unreadable", F("key", "croptask:plans"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "Plan store unreadable | key=croptask:plans")
}

func TestLogger_WithFieldsKeepsParentUntouched(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: DEBUG, Output: &buf})
	require.NoError(t, err)

	child := l.WithFields(F("plan", 1001))
	child.Debug("child")
	l.Debug("parent")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "plan=1001")
	assert.NotContains(t, string(lines[1]), "plan=1001")
}

func TestLogger_RotatesWhenFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "croptask.log")
	l, err := New(Config{Level: DEBUG, FilePath: path, MaxSize: 64, MaxBackups: 2})
	require.NoError(t, err)
	defer l.Close()

	for i := 0; i < 5; i++ {
		l.Info("a line long enough to push the file past its limit")
	}

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err)
}

func TestGlobalFunctionsAreNoOpsBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Debug("x")
		Info("x")
		Warn("x")
		Error("x")
	})
}
