// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testledger assembles an in-memory ledger with its registry and event log.
package testledger

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/clock"
	"github.com/vechain/repstake/eventlog"
	"github.com/vechain/repstake/issuer"
	"github.com/vechain/repstake/ledger"
	"github.com/vechain/repstake/lvldb"
)

// Genesis is the manual clock's start time.
const Genesis uint64 = 1_700_000_000

const (
	DefaultMinimumStake = 100
	DefaultMultiplier   = 5000
)

// Ledger bundles the components the api serves.
type Ledger struct {
	db       *lvldb.LevelDB
	ledger   *ledger.Ledger
	registry *issuer.Registry
	events   *eventlog.EventLog
	clock    *clock.Manual
	owner    account.Address
}

// New returns a ledger initialized by owner with the default parameters.
func New(owner account.Address) (*Ledger, error) {
	return NewWithParams(owner, uint256.NewInt(DefaultMinimumStake), uint256.NewInt(DefaultMultiplier))
}

// NewWithParams returns a ledger initialized by owner. A zero owner leaves it uninitialized.
func NewWithParams(owner account.Address, minimumStake, multiplier *uint256.Int) (*Ledger, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	events, err := eventlog.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}
	clk := clock.NewManual(Genesis)
	l, err := ledger.New(db, ledger.WithClock(clk))
	if err != nil {
		db.Close()
		events.Close()
		return nil, err
	}
	l.Subscribe(events.Observer())

	tl := &Ledger{
		db:       db,
		ledger:   l,
		registry: issuer.New(db),
		events:   events,
		clock:    clk,
		owner:    owner,
	}
	if owner.IsZero() {
		return tl, nil
	}
	if err := l.Initialize(owner, minimumStake, multiplier); err != nil {
		tl.Close()
		return nil, errors.WithMessage(err, "initialize ledger")
	}
	if err := tl.registry.Initialize(owner); err != nil {
		tl.Close()
		return nil, errors.WithMessage(err, "initialize registry")
	}
	return tl, nil
}

func (tl *Ledger) Ledger() *ledger.Ledger       { return tl.ledger }
func (tl *Ledger) Registry() *issuer.Registry   { return tl.registry }
func (tl *Ledger) EventLog() *eventlog.EventLog { return tl.events }
func (tl *Ledger) Clock() *clock.Manual         { return tl.clock }
func (tl *Ledger) Owner() account.Address       { return tl.owner }

// Stake stakes amount for staker at the current clock time.
func (tl *Ledger) Stake(staker account.Address, amount uint64) error {
	return tl.ledger.Stake(staker, uint256.NewInt(amount), tl.clock.Now())
}

// Withdraw withdraws amount for staker at the current clock time.
func (tl *Ledger) Withdraw(staker account.Address, amount uint64) error {
	return tl.ledger.Withdraw(staker, uint256.NewInt(amount), tl.clock.Now())
}

// Close releases the event log and the database.
func (tl *Ledger) Close() {
	tl.events.Close()
	tl.db.Close()
}
