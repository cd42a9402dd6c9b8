// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/vechain/repstake/ledger/reverts"
	"github.com/vechain/repstake/metrics"
)

var (
	metricOpsCount            = metrics.LazyLoadCounterVec("ledger_ops_count", []string{"op", "result"})
	metricTotalStaked         = metrics.LazyLoadGauge("ledger_total_staked")
	metricTotalReputation     = metrics.LazyLoadGauge("ledger_total_reputation")
	metricAccountsBlacklisted = metrics.LazyLoadGauge("ledger_accounts_blacklisted")
)

func recordOp(op string, err error) {
	result := "success"
	if err != nil {
		if kind := reverts.KindOf(err); kind != "" {
			result = kind
		} else {
			result = "error"
		}
	}
	metricOpsCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
}

// gaugeValue saturates v into a gauge's int64 range.
func gaugeValue(v *uint256.Int) int64 {
	if v.IsUint64() && v.Uint64() <= math.MaxInt64 {
		return int64(v.Uint64())
	}
	return math.MaxInt64
}
