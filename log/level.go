// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Legacy verbosity levels, as accepted by the --verbosity flag.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

// FromLegacyLevel converts a 0-9 verbosity into a slog level.
// Values above the trace level are treated as trace.
func FromLegacyLevel(lvl int) slog.Level {
	switch {
	case lvl <= LegacyLevelCrit:
		return ethlog.LevelCrit
	case lvl == LegacyLevelError:
		return slog.LevelError
	case lvl == LegacyLevelWarn:
		return slog.LevelWarn
	case lvl == LegacyLevelInfo:
		return slog.LevelInfo
	case lvl == LegacyLevelDebug:
		return slog.LevelDebug
	default:
		return ethlog.LevelTrace
	}
}
