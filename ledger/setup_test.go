// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/clock"
	"github.com/vechain/repstake/kv"
	"github.com/vechain/repstake/lvldb"
)

const genesisTime = uint64(1_700_000_000)

var (
	owner = account.BytesToAddress([]byte("owner"))
	alice = account.BytesToAddress([]byte("alice"))
	bob   = account.BytesToAddress([]byte("bob"))
	carol = account.BytesToAddress([]byte("carol"))
)

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

func newStore(t *testing.T) kv.Store {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// newLedger returns an initialized ledger with minimum stake 100 and multiplier 5000.
func newLedger(t *testing.T) (*Ledger, *clock.Manual) {
	clk := clock.NewManual(genesisTime)
	l, err := New(newStore(t), WithClock(clk))
	require.NoError(t, err)
	require.NoError(t, l.Initialize(owner, u(100), u(5000)))
	return l, clk
}

// assertInvariants checks that the totals equal the sums over all accounts.
func assertInvariants(t *testing.T, l *Ledger) {
	t.Helper()

	staked, rep := new(uint256.Int), new(uint256.Int)
	require.NoError(t, l.Accounts(func(_ account.Address, a *Account) error {
		staked.Add(staked, a.Staked)
		rep.Add(rep, a.Reputation)
		return nil
	}))

	summary, err := l.Summary()
	require.NoError(t, err)
	assert.Equal(t, staked, summary.TotalStaked, "total staked")
	assert.Equal(t, rep, summary.TotalReputation, "total reputation")
	assert.False(t, summary.ReputationMultiplier.Gt(maxMultiplier))
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	ledger *Ledger
	clock  *clock.Manual

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(ledger *Ledger, clock *clock.Manual) *TestSequence {
	return &TestSequence{ledger: ledger, clock: clock}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Stake(addr account.Address, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ledger.Stake(addr, u(amount), st.clock.Now()); err != nil {
			t.Fatalf("failed to stake %d for %s: %v", amount, addr, err)
		}
		t.Logf("staked %d for %s", amount, addr)
	})
}

func (st *TestSequence) StakeFails(addr account.Address, amount uint64, expected error) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := st.ledger.Stake(addr, u(amount), st.clock.Now())
		assert.ErrorIs(t, err, expected, "stake %d for %s", amount, addr)
	})
}

func (st *TestSequence) Withdraw(addr account.Address, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ledger.Withdraw(addr, u(amount), st.clock.Now()); err != nil {
			t.Fatalf("failed to withdraw %d for %s: %v", amount, addr, err)
		}
		t.Logf("withdrew %d for %s", amount, addr)
	})
}

func (st *TestSequence) WithdrawFails(addr account.Address, amount uint64, expected error) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := st.ledger.Withdraw(addr, u(amount), st.clock.Now())
		assert.ErrorIs(t, err, expected, "withdraw %d for %s", amount, addr)
	})
}

func (st *TestSequence) Blacklist(addr account.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ledger.BlacklistUser(owner, addr); err != nil {
			t.Fatalf("failed to blacklist %s: %v", addr, err)
		}
	})
}

func (st *TestSequence) Unblacklist(addr account.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ledger.RemoveFromBlacklist(owner, addr); err != nil {
			t.Fatalf("failed to remove %s from blacklist: %v", addr, err)
		}
	})
}

func (st *TestSequence) Advance(secs uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		now := st.clock.Advance(secs)
		t.Logf("advanced clock to %d", now)
	})
}

func (st *TestSequence) AssertInvariants() *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		assertInvariants(t, st.ledger)
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}

type AccountAssertions struct {
	ledger *Ledger
	addr   account.Address

	staked      *uint256.Int
	reputation  *uint256.Int
	timestamp   *uint64
	blacklisted *bool
}

func AssertAccount(ledger *Ledger, addr account.Address) *AccountAssertions {
	return &AccountAssertions{ledger: ledger, addr: addr}
}

func (aa *AccountAssertions) Staked(expected uint64) *AccountAssertions {
	aa.staked = u(expected)
	return aa
}

func (aa *AccountAssertions) Reputation(expected uint64) *AccountAssertions {
	aa.reputation = u(expected)
	return aa
}

func (aa *AccountAssertions) Timestamp(expected uint64) *AccountAssertions {
	aa.timestamp = &expected
	return aa
}

func (aa *AccountAssertions) Blacklisted(expected bool) *AccountAssertions {
	aa.blacklisted = &expected
	return aa
}

func (aa *AccountAssertions) Assert(t *testing.T) {
	t.Helper()

	acc, err := aa.ledger.Account(aa.addr)
	require.NoError(t, err)

	if aa.staked != nil {
		assert.Equal(t, aa.staked, acc.Staked, "staked of %s", aa.addr)
	}
	if aa.reputation != nil {
		assert.Equal(t, aa.reputation, acc.Reputation, "reputation of %s", aa.addr)
	}
	if aa.timestamp != nil {
		assert.Equal(t, *aa.timestamp, acc.StakeTimestamp, "stake timestamp of %s", aa.addr)
	}
	if aa.blacklisted != nil {
		assert.Equal(t, *aa.blacklisted, acc.Blacklisted, "blacklisted of %s", aa.addr)
	}
}
