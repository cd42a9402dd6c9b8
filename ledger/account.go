// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Account is the record kept per address.
// An address that never interacted with the ledger has the zero record.
type Account struct {
	Staked         *uint256.Int
	Reputation     *uint256.Int
	StakeTimestamp uint64
	Blacklisted    bool
}

func newAccount() *Account {
	return &Account{
		Staked:     new(uint256.Int),
		Reputation: new(uint256.Int),
	}
}

// IsEmpty returns whether every field holds its zero value.
func (a *Account) IsEmpty() bool {
	return a.Staked.IsZero() &&
		a.Reputation.IsZero() &&
		a.StakeTimestamp == 0 &&
		!a.Blacklisted
}

func (a *Account) clone() *Account {
	return &Account{
		Staked:         a.Staked.Clone(),
		Reputation:     a.Reputation.Clone(),
		StakeTimestamp: a.StakeTimestamp,
		Blacklisted:    a.Blacklisted,
	}
}

// WithdrawableAt returns the first time at which a withdrawal passes the cooldown check.
func (a *Account) WithdrawableAt() uint64 {
	if a.StakeTimestamp > math.MaxUint64-Cooldown {
		return math.MaxUint64
	}
	return a.StakeTimestamp + Cooldown
}

func encodeAccount(a *Account) ([]byte, error) {
	return rlp.EncodeToBytes(a)
}

func decodeAccount(data []byte) (*Account, error) {
	a := newAccount()
	if len(data) == 0 {
		return a, nil
	}
	if err := rlp.DecodeBytes(data, a); err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	return a, nil
}
