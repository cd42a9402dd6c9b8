// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazyLogger(t *testing.T) {
	// declared before the handler is installed, like package level loggers
	pkgLogger := WithContext("pkg", "test")

	var buf bytes.Buffer
	SetDefault(JSONHandler(&buf, slog.LevelInfo))
	defer SetDefault(DiscardHandler())

	pkgLogger.With("staker", "0x01").Info("staked", "amount", uint256.NewInt(200))
	pkgLogger.Debug("filtered out")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "staked", rec["msg"])
	assert.Equal(t, "test", rec["pkg"])
	assert.Equal(t, "0x01", rec["staker"])
	assert.Equal(t, "200", rec["amount"])
}

func TestEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(TerminalHandler(&buf, slog.LevelWarn, false))
	defer SetDefault(DiscardHandler())

	l := Root()
	assert.False(t, l.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, l.Enabled(context.Background(), slog.LevelError))

	l.Warn("careful", "k", "v")
	assert.Contains(t, buf.String(), "careful")
}

func TestFromLegacyLevel(t *testing.T) {
	tests := []struct {
		in   int
		want slog.Level
	}{
		{LegacyLevelError, slog.LevelError},
		{LegacyLevelWarn, slog.LevelWarn},
		{LegacyLevelInfo, slog.LevelInfo},
		{LegacyLevelDebug, slog.LevelDebug},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromLegacyLevel(tt.in))
	}
	assert.Less(t, FromLegacyLevel(9), slog.LevelDebug)
	assert.Greater(t, FromLegacyLevel(LegacyLevelCrit), slog.LevelError)
}

func TestLevelChangesAtRuntime(t *testing.T) {
	var (
		buf   bytes.Buffer
		level slog.LevelVar
	)
	level.Set(slog.LevelInfo)
	SetDefault(JSONHandler(&buf, &level))
	defer SetDefault(DiscardHandler())

	l := WithContext("pkg", "test")
	l.Debug("hidden")
	assert.Empty(t, buf.String())

	level.Set(slog.LevelDebug)
	assert.True(t, l.Enabled(context.Background(), slog.LevelDebug))
	l.With("k", "v").Debug("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	level.Set(slog.LevelError)
	l.Warn("hidden again")
	assert.Empty(t, buf.String())

	var term bytes.Buffer
	SetDefault(TerminalHandler(&term, &level, false))
	l.Error("terminal")
	assert.Contains(t, term.String(), "terminal")
}
