// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"github.com/vechain/repstake/account"
)

// MinimumStakeRequest sets the minimum total stake.
type MinimumStakeRequest struct {
	Caller *account.Address `json:"caller"`
	Value  string           `json:"value"`
}

// CallerRequest is the body of blacklist changes.
type CallerRequest struct {
	Caller *account.Address `json:"caller"`
}

// Blacklisted is the response of blacklist changes.
type Blacklisted struct {
	Address     account.Address `json:"address"`
	Blacklisted bool            `json:"blacklisted"`
}
