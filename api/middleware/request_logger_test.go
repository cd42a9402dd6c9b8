// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/repstake/log"
)

type recordingLogger struct {
	pairs []any
}

func (m *recordingLogger) With(...any) log.Logger {
	return m
}

func (m *recordingLogger) Trace(string, ...any) {}

func (m *recordingLogger) Debug(string, ...any) {}

func (m *recordingLogger) Error(string, ...any) {}

func (m *recordingLogger) Crit(string, ...any) {}

func (m *recordingLogger) Enabled(context.Context, slog.Level) bool {
	return true
}

func (m *recordingLogger) Info(_ string, ctx ...any) {
	m.pairs = append(m.pairs, ctx...)
}

func (m *recordingLogger) Warn(_ string, ctx ...any) {
	m.pairs = append(m.pairs, ctx...)
}

func (m *recordingLogger) value(key string) any {
	for i := 0; i+1 < len(m.pairs); i += 2 {
		if m.pairs[i] == key {
			return m.pairs[i+1]
		}
	}
	return nil
}

func respond(status int, delay time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(delay)
		w.WriteHeader(status)
	}
}

func TestRequestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		enabled   bool
		slow      time.Duration
		log5xx    bool
		shouldLog bool
	}{
		{"enabled", respond(http.StatusOK, 0), true, 0, false, true},
		{"disabled", respond(http.StatusOK, 0), false, 0, false, false},
		{"slow request", respond(http.StatusOK, 15*time.Millisecond), false, 5 * time.Millisecond, false, true},
		{"fast request", respond(http.StatusOK, 0), false, time.Second, false, false},
		{"5xx", respond(http.StatusInternalServerError, 0), false, 0, true, true},
		{"5xx not requested", respond(http.StatusServiceUnavailable, 0), false, 0, false, false},
		{"4xx", respond(http.StatusBadRequest, 0), false, 0, true, false},
		{"implicit 200", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) }, false, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &recordingLogger{}
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			body := `{"caller":"0x01","amount":"200"}`
			var seen string
			h := RequestLoggerMiddleware(logger, &enabled, tt.slow, tt.log5xx)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				b := new(bytes.Buffer)
				_, err := b.ReadFrom(r.Body)
				require.NoError(t, err)
				seen = b.String()
				tt.handler(w, r)
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "http://example.com/staking/stake", strings.NewReader(body)))

			assert.Equal(t, body, seen, "handler still reads the body")
			if !tt.shouldLog {
				assert.Empty(t, logger.pairs)
				return
			}
			assert.Equal(t, "http://example.com/staking/stake", logger.value("URI"))
			assert.Equal(t, http.MethodPost, logger.value("Method"))
			assert.Equal(t, body, logger.value("Body"))
			assert.Equal(t, rec.Code, logger.value("Status"))
			assert.IsType(t, int64(0), logger.value("Timestamp"))
		})
	}
}
