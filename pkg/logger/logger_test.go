package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("", "development"))
	assert.Equal(t, slog.LevelInfo, parseLevel("", "production"))
	assert.Equal(t, slog.LevelWarn, parseLevel(" WARNING ", "production"))
	assert.Equal(t, LevelCritical, parseLevel("fatal", "development"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose", "production"))
}

func TestCriticalLevelRendered(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "text")

	log.Critical("db: gone")

	assert.Contains(t, buf.String(), "level=CRITICAL")
	assert.Contains(t, buf.String(), "service=shared-ledger")
}

func TestBusinessErrorSkipsNil(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "json")

	log.BusinessError("entries.create: ignored", nil)
	assert.Empty(t, buf.String())

	log.BusinessError("entries.create: rejected", errors.New("boom"), "user_id", "u1")
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"user_id":"u1"`)
}

func TestFromContext(t *testing.T) {
	fallback := Discard()
	require.Same(t, fallback, FromContext(context.Background(), fallback))

	scoped := fallback.With("request_id", "r1")
	ctx := IntoContext(context.Background(), scoped)
	assert.Same(t, scoped, FromContext(ctx, fallback))
}
