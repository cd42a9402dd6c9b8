// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/holiman/uint256"
)

func add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrArithmetic
	}
	return z, nil
}

func sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrArithmetic
	}
	return z, nil
}

// mulDiv returns floor(x * y / d). d must be non-zero.
func mulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrArithmetic
	}
	return z.Div(z, d), nil
}

// accrual is floor(amount * multiplier / 10000).
func accrual(amount, multiplier *uint256.Int) (*uint256.Int, error) {
	return mulDiv(amount, multiplier, basisPoints)
}

// decay is floor(amount * score / staked), or the whole score if nothing is staked.
func decay(amount, score, staked *uint256.Int) (*uint256.Int, error) {
	if staked.IsZero() {
		return score.Clone(), nil
	}
	return mulDiv(amount, score, staked)
}
