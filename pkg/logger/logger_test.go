package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "warn")
	require.NoError(t, err)

	log.Info("skipped %d", 1)
	log.Warn("kept booking=%d", 42)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "kept booking=42", entry["message"])
}

func TestParseLevel(t *testing.T) {
	for _, lvl := range []string{"", "info", "DEBUG", "warning", "error"} {
		_, err := parseLevel(lvl)
		assert.NoError(t, err, lvl)
	}

	_, err := parseLevel("verbose")
	assert.Error(t, err)
}
