// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/repstake/eventlog"
	"github.com/vechain/repstake/ledger"
)

type ClockCheck struct {
	Offset    string     `json:"offset"`
	Synced    bool       `json:"synced"`
	CheckedAt *time.Time `json:"checkedAt"`
}

type Status struct {
	Healthy     bool        `json:"healthy"`
	LedgerSeq   uint64      `json:"ledgerSeq"`
	EventLogSeq uint64      `json:"eventLogSeq"`
	Clock       *ClockCheck `json:"clock"`
}

// Health tracks whether the event log keeps up with the ledger and the clock is in sync.
type Health struct {
	lock      sync.RWMutex
	ledger    *ledger.Ledger
	events    *eventlog.EventLog
	offset    time.Duration
	synced    bool
	checkedAt time.Time
}

func New(l *ledger.Ledger, events *eventlog.EventLog) *Health {
	return &Health{
		ledger: l,
		events: events,
	}
}

// ClockChecked records an offset check. It matches clock.Reporter.
func (h *Health) ClockChecked(offset time.Duration, synced bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.offset = offset
	h.synced = synced
	h.checkedAt = time.Now()
}

// Status reports healthy when the event log holds every ledger event and
// the last clock check, if any, found the clock in sync.
func (h *Health) Status(ctx context.Context) (*Status, error) {
	logSeq, err := h.events.LastSeq(ctx)
	if err != nil {
		return nil, err
	}
	status := &Status{
		LedgerSeq:   h.ledger.Seq(),
		EventLogSeq: logSeq,
	}

	h.lock.RLock()
	defer h.lock.RUnlock()

	clockOK := true
	if !h.checkedAt.IsZero() {
		checkedAt := h.checkedAt
		status.Clock = &ClockCheck{
			Offset:    common.PrettyDuration(h.offset).String(),
			Synced:    h.synced,
			CheckedAt: &checkedAt,
		}
		clockOK = h.synced
	}
	status.Healthy = clockOK && status.EventLogSeq == status.LedgerSeq
	return status, nil
}
