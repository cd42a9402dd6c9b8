// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, router *mux.Router, method, body string) (LogStatus, int) {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, "/admin/apilogs", strings.NewReader(body)))

	var status LogStatus
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	}
	return status, rec.Code
}

func TestAPILogs(t *testing.T) {
	var enabled atomic.Bool
	router := mux.NewRouter()
	New(&enabled).Mount(router, "/admin/apilogs")

	status, code := serve(t, router, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, status.Enabled)

	status, code = serve(t, router, http.MethodPost, `{"enabled":true}`)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, status.Enabled)
	assert.True(t, enabled.Load())

	_, code = serve(t, router, http.MethodPost, `{"enabled":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.True(t, enabled.Load())

	status, _ = serve(t, router, http.MethodPost, `{"enabled":false}`)
	assert.False(t, status.Enabled)
}
