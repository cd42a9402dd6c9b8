// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/repstake/account"
)

// Request is the body of stake and withdraw.
// Amount is decimal or 0x prefixed hex.
type Request struct {
	Caller *account.Address `json:"caller"`
	Amount string           `json:"amount"`
}

func (r *Request) validate() error {
	if r.Caller == nil {
		return errors.New("caller: missing")
	}
	if r.Amount == "" {
		return errors.New("amount: missing")
	}
	return nil
}
