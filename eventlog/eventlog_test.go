// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/clock"
	"github.com/vechain/repstake/ledger"
	"github.com/vechain/repstake/lvldb"
)

var (
	owner = account.BytesToAddress([]byte("owner"))
	alice = account.BytesToAddress([]byte("alice"))
	bob   = account.BytesToAddress([]byte("bob"))
)

func newEventLog(t *testing.T) *EventLog {
	el, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { el.Close() })
	return el
}

// newLedger returns a ledger whose events are mirrored into el.
func newLedger(t *testing.T, el *EventLog) (*ledger.Ledger, *clock.Manual) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clk := clock.NewManual(1000)
	l, err := ledger.New(db, ledger.WithClock(clk))
	require.NoError(t, err)
	l.Subscribe(el.Observer())
	require.NoError(t, l.Initialize(owner, uint256.NewInt(100), uint256.NewInt(5000)))
	return l, clk
}

func TestObserver(t *testing.T) {
	el := newEventLog(t)
	l, clk := newLedger(t, el)
	ctx := context.Background()

	require.NoError(t, l.Stake(alice, uint256.NewInt(200), clk.Now()))
	require.NoError(t, l.Stake(bob, uint256.NewInt(300), clk.Advance(10)))
	require.NoError(t, l.Withdraw(alice, uint256.NewInt(100), clk.Advance(ledger.Cooldown)))
	require.NoError(t, l.BlacklistUser(owner, bob))

	last, err := el.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, l.Seq(), last)

	all, err := el.Filter(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 8)
	for i, ev := range all {
		assert.Equal(t, uint64(i+1), ev.Seq)
	}

	assert.Equal(t, ledger.EventOwnershipTransferred, all[0].Kind)
	assert.Equal(t, owner, all[0].Account)
	assert.Nil(t, all[0].Amount)

	withdrawn := all[5]
	assert.Equal(t, ledger.EventWithdrawn, withdrawn.Kind)
	assert.Equal(t, alice, withdrawn.Account)
	assert.Equal(t, uint256.NewInt(100), withdrawn.Amount)
	assert.Equal(t, uint256.NewInt(100), withdrawn.Total)
	assert.Equal(t, uint64(1010+ledger.Cooldown), withdrawn.Timestamp)

	repDown := all[6]
	assert.Equal(t, uint256.NewInt(100), repDown.OldValue)
	assert.Equal(t, uint256.NewInt(50), repDown.NewValue)
}

func TestFilter(t *testing.T) {
	el := newEventLog(t)
	l, clk := newLedger(t, el)
	ctx := context.Background()

	require.NoError(t, l.Stake(alice, uint256.NewInt(200), clk.Now()))
	require.NoError(t, l.Stake(bob, uint256.NewInt(300), clk.Advance(100)))
	require.NoError(t, l.Stake(alice, uint256.NewInt(50), clk.Advance(100)))

	tests := []struct {
		name   string
		filter *Filter
		seqs   []uint64
	}{
		{"by account", &Filter{Account: &alice}, []uint64{2, 3, 6, 7}},
		{"by kind", &Filter{Kinds: []ledger.EventKind{ledger.EventStaked}}, []uint64{2, 4, 6}},
		{"by kinds", &Filter{Kinds: []ledger.EventKind{ledger.EventStaked, ledger.EventOwnershipTransferred}}, []uint64{1, 2, 4, 6}},
		{"account and kind", &Filter{Account: &bob, Kinds: []ledger.EventKind{ledger.EventReputationUpdated}}, []uint64{5}},
		{"range", &Filter{Range: &Range{From: 1100, To: 1150}}, []uint64{4, 5}},
		{"open range", &Filter{Range: &Range{From: 1100}}, []uint64{4, 5, 6, 7}},
		{"desc", &Filter{Account: &alice, Order: DESC}, []uint64{7, 6, 3, 2}},
		{"after", &Filter{After: 5}, []uint64{6, 7}},
		{"after and account", &Filter{Account: &bob, After: 2}, []uint64{4, 5}},
		{"page", &Filter{Options: &Options{Offset: 2, Limit: 3}}, []uint64{3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := el.Filter(ctx, tt.filter)
			require.NoError(t, err)
			seqs := make([]uint64, 0, len(events))
			for _, ev := range events {
				seqs = append(seqs, ev.Seq)
			}
			assert.Equal(t, tt.seqs, seqs)
		})
	}
}

func TestNewEvents(t *testing.T) {
	el := newEventLog(t)
	ch := el.NewEvents()

	select {
	case <-ch:
		t.Fatal("signalled before any write")
	default:
	}

	require.NoError(t, el.Write(context.Background(), []*ledger.Event{{Seq: 1, Kind: ledger.EventStaked, Account: alice}}))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no signal after write")
	}
	assert.NotEqual(t, ch, el.NewEvents())
}

func TestWriteIsIdempotent(t *testing.T) {
	el := newEventLog(t)
	ctx := context.Background()

	events := []*ledger.Event{
		{Seq: 1, Kind: ledger.EventMinimumStakeUpdated, OldValue: uint256.NewInt(1), NewValue: uint256.NewInt(2)},
		{Seq: 2, Kind: ledger.EventUserBlacklisted, Account: alice},
	}
	require.NoError(t, el.Write(ctx, events))
	require.NoError(t, el.Write(ctx, events))
	require.NoError(t, el.Write(ctx, nil))

	all, err := el.Filter(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, uint256.NewInt(2), all[0].NewValue)
}

func TestPersistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	el, err := New(path)
	require.NoError(t, err)
	require.NoError(t, el.Write(context.Background(), []*ledger.Event{{Seq: 7, Kind: ledger.EventStaked, Account: bob}}))
	require.NoError(t, el.Close())

	el, err = New(path)
	require.NoError(t, err)
	defer el.Close()

	last, err := el.LastSeq(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(7), last)
	assert.Equal(t, path, el.Path())
	assert.NotEmpty(t, el.DriverVersion())
}
