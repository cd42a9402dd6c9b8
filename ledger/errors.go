// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/pkg/errors"

	"github.com/vechain/repstake/ledger/reverts"
)

// Rejections. The ledger is left unchanged when any of these is returned.
var (
	ErrUnauthorized        = reverts.New("Unauthorized", "caller is not the owner")
	ErrZeroAddress         = reverts.New("ZeroAddress", "zero address")
	ErrInvalidAmount       = reverts.New("InvalidAmount", "amount must be greater than zero")
	ErrInvalidMultiplier   = reverts.New("InvalidMultiplier", "reputation multiplier exceeds 50000 basis points")
	ErrBlacklistedCaller   = reverts.New("BlacklistedCaller", "caller is blacklisted")
	ErrAlreadyInitialized  = reverts.New("AlreadyInitialized", "ledger already initialized")
	ErrNotInitialized      = reverts.New("NotInitialized", "ledger not initialized")
	ErrNoStake             = reverts.New("NoStake", "no stake")
	ErrInsufficientBalance = reverts.New("InsufficientBalance", "amount exceeds staked balance")
	ErrInsufficientStake   = reverts.New("InsufficientStake", "resulting stake below minimum")
	ErrTooEarly            = reverts.New("TooEarly", "withdrawal cooldown not elapsed")
	ErrNotBlacklisted      = reverts.New("NotBlacklisted", "user is not blacklisted")
)

// ErrArithmetic is returned when checked arithmetic over- or underflows.
// It is an internal fault, not a rejection by policy.
var ErrArithmetic = errors.New("arithmetic overflow")
