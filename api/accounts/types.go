// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import "github.com/vechain/repstake/ledger"

// Account for marshal account
type Account struct {
	Staked         string `json:"staked"`
	Reputation     string `json:"reputation"`
	StakeTimestamp uint64 `json:"stakeTimestamp"`
	WithdrawableAt uint64 `json:"withdrawableAt"`
	Blacklisted    bool   `json:"blacklisted"`
}

// Value is a single decimal amount.
type Value struct {
	Value string `json:"value"`
}

// Convert converts a ledger account record. WithdrawableAt is 0 without stake.
func Convert(acc *ledger.Account) *Account {
	var withdrawableAt uint64
	if !acc.Staked.IsZero() {
		withdrawableAt = acc.WithdrawableAt()
	}
	return &Account{
		Staked:         acc.Staked.Dec(),
		Reputation:     acc.Reputation.Dec(),
		StakeTimestamp: acc.StakeTimestamp,
		WithdrawableAt: withdrawableAt,
		Blacklisted:    acc.Blacklisted,
	}
}
