// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		expectedStatus int
		expectedLevel  string
	}{
		{"get", http.MethodGet, "", http.StatusOK, "INFO"},
		{"set debug", http.MethodPost, `{"level":"debug"}`, http.StatusOK, "DEBUG"},
		{"set trace", http.MethodPost, `{"level":"trace"}`, http.StatusOK, "DEBUG-4"},
		{"set crit", http.MethodPost, `{"level":"crit"}`, http.StatusOK, "ERROR+4"},
		{"unknown level", http.MethodPost, `{"level":"loud"}`, http.StatusBadRequest, ""},
		{"malformed", http.MethodPost, `{"level":`, http.StatusBadRequest, ""},
		{"unsupported method", http.MethodPut, `{"level":"warn"}`, http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var level slog.LevelVar
			level.Set(slog.LevelInfo)

			router := mux.NewRouter()
			New(&level).Mount(router, "/admin/loglevel")

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, "/admin/loglevel", strings.NewReader(tt.body)))
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedLevel != "" {
				var res Response
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
				assert.Equal(t, tt.expectedLevel, res.CurrentLevel)
				assert.Equal(t, tt.expectedLevel, level.Level().String())
			}
		})
	}
}
