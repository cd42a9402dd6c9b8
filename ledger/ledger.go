// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/clock"
	"github.com/vechain/repstake/kv"
	"github.com/vechain/repstake/log"
)

const (
	// Cooldown is the number of seconds a deposit locks the whole balance.
	Cooldown = 86400
	// MaxReputationMultiplier caps the multiplier at 500%.
	MaxReputationMultiplier = 50000
	// DefaultCacheSize is the number of storage entries kept in memory.
	DefaultCacheSize = 4096
)

var (
	logger = log.WithContext("pkg", "ledger")

	basisPoints   = uint256.NewInt(10000)
	maxMultiplier = uint256.NewInt(MaxReputationMultiplier)
)

// Reader is the read surface other components are built against.
type Reader interface {
	StakeOf(addr account.Address) (*uint256.Int, error)
	ReputationOf(addr account.Address) (*uint256.Int, error)
}

var _ Reader = (*Ledger)(nil)

// Summary is the ledger wide state.
type Summary struct {
	Initialized          bool
	Owner                account.Address
	MinimumStake         *uint256.Int
	ReputationMultiplier *uint256.Int
	TotalStaked          *uint256.Int
	TotalReputation      *uint256.Int
}

// Ledger is the reputation-accruing staking ledger.
// Mutating operations are serialized and all-or-nothing.
type Ledger struct {
	mu        sync.RWMutex
	state     *state
	clock     clock.Clock
	cacheSize int

	seq     uint64
	pending []*Event

	observersMu    sync.Mutex
	observers      map[uint64]Observer
	nextObserverID uint64
}

type Option func(*Ledger)

// WithClock sets the clock used to timestamp administrative events.
func WithClock(c clock.Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// WithCacheSize sets the number of storage entries cached in memory.
func WithCacheSize(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.cacheSize = n
		}
	}
}

// New opens the ledger persisted in store.
func New(store kv.Store, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		clock:     clock.System{},
		cacheSize: DefaultCacheSize,
		observers: make(map[uint64]Observer),
	}
	for _, opt := range opts {
		opt(l)
	}

	st, err := newState(store, l.cacheSize)
	if err != nil {
		return nil, err
	}
	l.state = st

	if l.seq, err = st.getUint64(seqKey); err != nil {
		return nil, err
	}

	summary, err := l.Summary()
	if err != nil {
		return nil, err
	}
	var blacklisted int64
	if err := st.iterateAccounts(func(_ account.Address, a *Account) error {
		if a.Blacklisted {
			blacklisted++
		}
		return nil
	}); err != nil {
		return nil, err
	}
	metricTotalStaked().Set(gaugeValue(summary.TotalStaked))
	metricTotalReputation().Set(gaugeValue(summary.TotalReputation))
	metricAccountsBlacklisted().Set(blacklisted)

	return l, nil
}

// execute runs fn as one all-or-nothing operation.
func (l *Ledger) execute(op string, fn func() error) (err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	depth := l.state.checkpoint()
	defer l.state.revertTo(depth)
	l.pending = nil

	defer func() { recordOp(op, err) }()

	if err := fn(); err != nil {
		return err
	}

	events := l.pending
	l.pending = nil
	if len(events) > 0 {
		l.state.setUint64(seqKey, events[len(events)-1].Seq)
	}
	if err := l.state.commit(); err != nil {
		return errors.WithMessage(err, op)
	}
	if len(events) > 0 {
		l.seq = events[len(events)-1].Seq
	}
	l.notify(events)
	return nil
}

// owner returns the owner, failing if the ledger is not initialized.
func (l *Ledger) owner() (account.Address, error) {
	owner, ok, err := l.state.getOwner()
	if err != nil {
		return account.Address{}, err
	}
	if !ok {
		return account.Address{}, ErrNotInitialized
	}
	return owner, nil
}

// Initialize establishes the owner and the policy. It succeeds only once.
func (l *Ledger) Initialize(initiator account.Address, minimumStake, multiplier *uint256.Int) error {
	logger.Debug("initializing ledger", "owner", initiator, "minimumStake", minimumStake, "multiplier", multiplier)

	err := l.execute("initialize", func() error {
		if _, ok, err := l.state.getOwner(); err != nil {
			return err
		} else if ok {
			return ErrAlreadyInitialized
		}
		if initiator.IsZero() {
			return ErrZeroAddress
		}
		multiplier = orZero(multiplier)
		if multiplier.Gt(maxMultiplier) {
			return ErrInvalidMultiplier
		}

		l.state.setOwner(initiator)
		l.state.setUint256(minStakeKey, orZero(minimumStake))
		l.state.setUint256(multiplierKey, multiplier)
		l.state.setUint256(totalStakeKey, new(uint256.Int))
		l.state.setUint256(totalRepKey, new(uint256.Int))

		l.emit(&Event{
			Kind:      EventOwnershipTransferred,
			Account:   initiator,
			Timestamp: l.clock.Now(),
		})
		return nil
	})
	if err != nil {
		logger.Info("initialize failed", "owner", initiator, "error", err)
		return err
	}

	logger.Info("initialized ledger", "owner", initiator)
	return nil
}

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v.Clone()
}

// Owner returns the owner, or the zero address before initialization.
func (l *Ledger) Owner() (account.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	owner, _, err := l.state.getOwner()
	return owner, err
}

func (l *Ledger) getUint256(name string) (*uint256.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.state.getUint256(name)
}

func (l *Ledger) TotalStaked() (*uint256.Int, error) {
	return l.getUint256(totalStakeKey)
}

func (l *Ledger) MinimumStake() (*uint256.Int, error) {
	return l.getUint256(minStakeKey)
}

func (l *Ledger) ReputationMultiplier() (*uint256.Int, error) {
	return l.getUint256(multiplierKey)
}

func (l *Ledger) TotalReputation() (*uint256.Int, error) {
	return l.getUint256(totalRepKey)
}

// Summary returns a consistent view of the ledger wide state.
func (l *Ledger) Summary() (*Summary, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := &Summary{}
	var err error
	if s.Owner, s.Initialized, err = l.state.getOwner(); err != nil {
		return nil, err
	}
	if s.MinimumStake, err = l.state.getUint256(minStakeKey); err != nil {
		return nil, err
	}
	if s.ReputationMultiplier, err = l.state.getUint256(multiplierKey); err != nil {
		return nil, err
	}
	if s.TotalStaked, err = l.state.getUint256(totalStakeKey); err != nil {
		return nil, err
	}
	if s.TotalReputation, err = l.state.getUint256(totalRepKey); err != nil {
		return nil, err
	}
	return s, nil
}

// Account returns the record of addr. Unknown addresses yield the zero record.
func (l *Ledger) Account(addr account.Address) (*Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.state.getAccount(addr)
}

func (l *Ledger) StakeOf(addr account.Address) (*uint256.Int, error) {
	a, err := l.Account(addr)
	if err != nil {
		return nil, err
	}
	return a.Staked, nil
}

func (l *Ledger) ReputationOf(addr account.Address) (*uint256.Int, error) {
	a, err := l.Account(addr)
	if err != nil {
		return nil, err
	}
	return a.Reputation, nil
}

// StakeTimestampOf returns the time of the last deposit of addr.
func (l *Ledger) StakeTimestampOf(addr account.Address) (uint64, error) {
	a, err := l.Account(addr)
	if err != nil {
		return 0, err
	}
	return a.StakeTimestamp, nil
}

func (l *Ledger) IsBlacklisted(addr account.Address) (bool, error) {
	a, err := l.Account(addr)
	if err != nil {
		return false, err
	}
	return a.Blacklisted, nil
}

// WithdrawableAt returns the time from which addr may withdraw, or 0 if it has no stake.
func (l *Ledger) WithdrawableAt(addr account.Address) (uint64, error) {
	a, err := l.Account(addr)
	if err != nil {
		return 0, err
	}
	if a.Staked.IsZero() {
		return 0, nil
	}
	return a.WithdrawableAt(), nil
}

// Accounts calls fn for every stored account in address order.
// The ledger is read locked for the whole walk.
func (l *Ledger) Accounts(fn func(account.Address, *Account) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.state.iterateAccounts(fn)
}

// Seq returns the sequence number of the last emitted event.
func (l *Ledger) Seq() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.seq
}
