// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/holiman/uint256"

	"github.com/vechain/repstake/account"
)

// Stake deposits amount for staker at time now and accrues reputation.
// Every deposit restarts the cooldown of the whole balance.
func (l *Ledger) Stake(staker account.Address, amount *uint256.Int, now uint64) error {
	logger.Debug("staking", "staker", staker, "amount", amount)

	var (
		totalStaked, totalRep *uint256.Int
		acc                   *Account
	)
	err := l.execute("stake", func() error {
		if _, err := l.owner(); err != nil {
			return err
		}
		prev, err := l.state.getAccount(staker)
		if err != nil {
			return err
		}
		if prev.Blacklisted {
			return ErrBlacklistedCaller
		}
		amount := orZero(amount)
		if amount.IsZero() {
			return ErrInvalidAmount
		}

		acc = prev.clone()
		if acc.Staked, err = add(prev.Staked, amount); err != nil {
			return err
		}
		minStake, err := l.state.getUint256(minStakeKey)
		if err != nil {
			return err
		}
		if acc.Staked.Lt(minStake) {
			return ErrInsufficientStake
		}

		multiplier, err := l.state.getUint256(multiplierKey)
		if err != nil {
			return err
		}
		delta, err := accrual(amount, multiplier)
		if err != nil {
			return err
		}
		if acc.Reputation, err = add(prev.Reputation, delta); err != nil {
			return err
		}
		acc.StakeTimestamp = now

		if totalStaked, err = l.addTotal(totalStakeKey, amount); err != nil {
			return err
		}
		if totalRep, err = l.addTotal(totalRepKey, delta); err != nil {
			return err
		}
		if err := l.state.setAccount(staker, acc); err != nil {
			return err
		}

		l.emit(&Event{
			Kind:      EventStaked,
			Account:   staker,
			Amount:    amount,
			Total:     acc.Staked.Clone(),
			Timestamp: now,
		})
		l.emit(&Event{
			Kind:      EventReputationUpdated,
			Account:   staker,
			OldValue:  prev.Reputation.Clone(),
			NewValue:  acc.Reputation.Clone(),
			Timestamp: now,
		})
		return nil
	})
	if err != nil {
		logger.Info("stake failed", "staker", staker, "amount", amount, "error", err)
		return err
	}

	metricTotalStaked().Set(gaugeValue(totalStaked))
	metricTotalReputation().Set(gaugeValue(totalRep))
	logger.Info("staked", "staker", staker, "total", acc.Staked, "reputation", acc.Reputation)
	return nil
}

// Withdraw releases amount of staker's stake once the cooldown has elapsed.
// Reputation decays by the fraction of the balance removed.
func (l *Ledger) Withdraw(staker account.Address, amount *uint256.Int, now uint64) error {
	logger.Debug("withdrawing", "staker", staker, "amount", amount)

	var (
		totalStaked, totalRep *uint256.Int
		acc                   *Account
	)
	err := l.execute("withdraw", func() error {
		if _, err := l.owner(); err != nil {
			return err
		}
		prev, err := l.state.getAccount(staker)
		if err != nil {
			return err
		}
		if prev.Blacklisted {
			return ErrBlacklistedCaller
		}
		if prev.Staked.IsZero() {
			return ErrNoStake
		}
		amount := orZero(amount)
		if amount.Gt(prev.Staked) {
			return ErrInsufficientBalance
		}
		if now < prev.WithdrawableAt() {
			return ErrTooEarly
		}

		acc = prev.clone()
		if acc.Staked, err = sub(prev.Staked, amount); err != nil {
			return err
		}
		d, err := decay(amount, prev.Reputation, prev.Staked)
		if err != nil {
			return err
		}
		if d.Gt(prev.Reputation) {
			d = prev.Reputation.Clone()
		}
		if acc.Reputation, err = sub(prev.Reputation, d); err != nil {
			return err
		}

		if totalStaked, err = l.subTotal(totalStakeKey, amount); err != nil {
			return err
		}
		if totalRep, err = l.subTotal(totalRepKey, d); err != nil {
			return err
		}
		if err := l.state.setAccount(staker, acc); err != nil {
			return err
		}

		l.emit(&Event{
			Kind:      EventWithdrawn,
			Account:   staker,
			Amount:    amount,
			Total:     acc.Staked.Clone(),
			Timestamp: now,
		})
		l.emit(&Event{
			Kind:      EventReputationUpdated,
			Account:   staker,
			OldValue:  prev.Reputation.Clone(),
			NewValue:  acc.Reputation.Clone(),
			Timestamp: now,
		})
		return nil
	})
	if err != nil {
		logger.Info("withdraw failed", "staker", staker, "amount", amount, "error", err)
		return err
	}

	metricTotalStaked().Set(gaugeValue(totalStaked))
	metricTotalReputation().Set(gaugeValue(totalRep))
	logger.Info("withdrew", "staker", staker, "remaining", acc.Staked, "reputation", acc.Reputation)
	return nil
}

func (l *Ledger) addTotal(name string, delta *uint256.Int) (*uint256.Int, error) {
	total, err := l.state.getUint256(name)
	if err != nil {
		return nil, err
	}
	if total, err = add(total, delta); err != nil {
		return nil, err
	}
	l.state.setUint256(name, total)
	return total, nil
}

func (l *Ledger) subTotal(name string, delta *uint256.Int) (*uint256.Int, error) {
	total, err := l.state.getUint256(name)
	if err != nil {
		return nil, err
	}
	if total, err = sub(total, delta); err != nil {
		return nil, err
	}
	l.state.setUint256(name, total)
	return total, nil
}
