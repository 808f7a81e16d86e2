package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	logger := Component("deck")
	logger.Info().Ctx(WithCardID(context.Background(), "c1")).Msg("selected")

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))

	assert.Equal(t, "deck", logEntry["cmp"])
	assert.Equal(t, "selected", logEntry["message"])
	assert.Equal(t, "c1", logEntry["card"], "component loggers carry the context hook")
}
