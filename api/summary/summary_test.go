// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package summary_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/api/summary"
	"github.com/vechain/repstake/test/testledger"
)

func getSummary(t *testing.T, tl *testledger.Ledger) *summary.Summary {
	router := mux.NewRouter()
	summary.New(tl.Ledger()).Mount(router, "/ledger")
	ts := httptest.NewServer(router)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/ledger")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var s summary.Summary
	require.NoError(t, json.Unmarshal(body, &s))
	return &s
}

func TestSummary(t *testing.T) {
	owner := account.BytesToAddress([]byte("owner"))
	tl, err := testledger.New(owner)
	require.NoError(t, err)
	defer tl.Close()

	require.NoError(t, tl.Stake(account.BytesToAddress([]byte("alice")), 200))
	require.NoError(t, tl.Stake(account.BytesToAddress([]byte("bob")), 1000))

	s := getSummary(t, tl)
	assert.True(t, s.Initialized)
	require.NotNil(t, s.Owner)
	assert.Equal(t, owner, *s.Owner)
	assert.Equal(t, "100", s.MinimumStake)
	assert.Equal(t, "5000", s.ReputationMultiplier)
	assert.Equal(t, "1200", s.TotalStaked)
	assert.Equal(t, "600", s.TotalReputation)
	assert.Equal(t, uint64(5), s.Seq)
}

func TestSummaryUninitialized(t *testing.T) {
	tl, err := testledger.NewWithParams(account.Address{}, nil, nil)
	require.NoError(t, err)
	defer tl.Close()

	s := getSummary(t, tl)
	assert.False(t, s.Initialized)
	assert.Nil(t, s.Owner)
	assert.Equal(t, "0", s.TotalStaked)
	assert.Equal(t, uint64(0), s.Seq)
}
