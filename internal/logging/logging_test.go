package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cardex.log")

	log, closer, err := New(path, "debug")
	require.NoError(t, err)
	log.Debug().Str("search", "char").Msg("Browse fetch due")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Browse fetch due")
	assert.Contains(t, string(data), "search=char")
}

func TestNewWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, zerolog.WarnLevel)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardex.log")
	log, closer, err := New(path, "chatty")
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()

	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}
