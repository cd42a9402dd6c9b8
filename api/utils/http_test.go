// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/repstake/ledger/reverts"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"revert", Rejected(reverts.New("TooEarly", "cooldown")), http.StatusBadRequest, "TooEarly"},
		{"wrapped revert", Rejected(errors.WithMessage(reverts.New("NoStake", "no stake"), "withdraw")), http.StatusBadRequest, "NoStake"},
		{"unauthorized", Rejected(reverts.New("Unauthorized", "not owner")), http.StatusForbidden, "Unauthorized"},
		{"bad request", BadRequest(errors.New("address: invalid length")), http.StatusBadRequest, "Bad Request"},
		{"internal", Rejected(errors.New("disk failure")), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
				return tt.err
			})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, rec.Code)
			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.kind, body.Error)
			assert.Equal(t, tt.err.Error(), body.Message)
		})
	}

	rec := httptest.NewRecorder()
	WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
		return HTTPError(nil, http.StatusNotFound)
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Nil(t, Rejected(nil))
}

func TestParseJSON(t *testing.T) {
	var v struct {
		Caller string `json:"caller"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"caller":"0x01"}`), &v))
	assert.Equal(t, "0x01", v.Caller)

	assert.Error(t, ParseJSON(strings.NewReader(`{"caller":"0x01","extra":1}`), &v))
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, M{"ok": true}))
	assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}
