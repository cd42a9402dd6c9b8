// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/holiman/uint256"

	"github.com/vechain/repstake/account"
)

// onlyOwner fails unless the ledger is initialized and caller is its owner.
func (l *Ledger) onlyOwner(caller account.Address) error {
	owner, err := l.owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return ErrUnauthorized
	}
	return nil
}

// SetMinimumStake changes the minimum resulting stake of future deposits.
func (l *Ledger) SetMinimumStake(caller account.Address, value *uint256.Int) error {
	logger.Debug("setting minimum stake", "caller", caller, "value", value)

	err := l.execute("set-minimum-stake", func() error {
		if err := l.onlyOwner(caller); err != nil {
			return err
		}
		old, err := l.state.getUint256(minStakeKey)
		if err != nil {
			return err
		}
		value := orZero(value)
		l.state.setUint256(minStakeKey, value)

		l.emit(&Event{
			Kind:      EventMinimumStakeUpdated,
			OldValue:  old,
			NewValue:  value,
			Timestamp: l.clock.Now(),
		})
		return nil
	})
	if err != nil {
		logger.Info("set minimum stake failed", "caller", caller, "error", err)
		return err
	}

	logger.Info("minimum stake updated", "value", value)
	return nil
}

// BlacklistUser blocks user from staking and withdrawing. Balances are kept.
// Blacklisting an already blacklisted user succeeds and emits again.
func (l *Ledger) BlacklistUser(caller, user account.Address) error {
	logger.Debug("blacklisting user", "caller", caller, "user", user)

	var added bool
	err := l.execute("blacklist", func() error {
		if err := l.onlyOwner(caller); err != nil {
			return err
		}
		if user.IsZero() {
			return ErrZeroAddress
		}
		acc, err := l.state.getAccount(user)
		if err != nil {
			return err
		}
		added = !acc.Blacklisted
		acc.Blacklisted = true
		if err := l.state.setAccount(user, acc); err != nil {
			return err
		}

		l.emit(&Event{
			Kind:      EventUserBlacklisted,
			Account:   user,
			Timestamp: l.clock.Now(),
		})
		return nil
	})
	if err != nil {
		logger.Info("blacklist failed", "user", user, "error", err)
		return err
	}

	if added {
		metricAccountsBlacklisted().Add(1)
	}
	logger.Info("user blacklisted", "user", user)
	return nil
}

// RemoveFromBlacklist lifts the block on user.
func (l *Ledger) RemoveFromBlacklist(caller, user account.Address) error {
	logger.Debug("removing user from blacklist", "caller", caller, "user", user)

	err := l.execute("unblacklist", func() error {
		if err := l.onlyOwner(caller); err != nil {
			return err
		}
		acc, err := l.state.getAccount(user)
		if err != nil {
			return err
		}
		if !acc.Blacklisted {
			return ErrNotBlacklisted
		}
		acc.Blacklisted = false
		if err := l.state.setAccount(user, acc); err != nil {
			return err
		}

		l.emit(&Event{
			Kind:      EventUserUnblacklisted,
			Account:   user,
			Timestamp: l.clock.Now(),
		})
		return nil
	})
	if err != nil {
		logger.Info("remove from blacklist failed", "user", user, "error", err)
		return err
	}

	metricAccountsBlacklisted().Add(-1)
	logger.Info("user removed from blacklist", "user", user)
	return nil
}
