// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/vechain/repstake/api/events"
	"github.com/vechain/repstake/eventlog"
)

// eventReader pages through the event log after a position.
type eventReader struct {
	db     *eventlog.EventLog
	filter eventlog.Filter
	pos    uint64
	batch  uint64
}

func newEventReader(db *eventlog.EventLog, pos uint64, filter *eventlog.Filter, batch uint64) *eventReader {
	return &eventReader{
		db:     db,
		filter: *filter,
		pos:    pos,
		batch:  batch,
	}
}

// Read returns the next matching events and whether more may be pending.
// The position advances past every returned event.
func (er *eventReader) Read(ctx context.Context) ([]any, bool, error) {
	filter := er.filter
	filter.After = er.pos
	filter.Order = eventlog.ASC
	filter.Options = &eventlog.Options{Limit: er.batch}

	evs, err := er.db.Filter(ctx, &filter)
	if err != nil {
		return nil, false, err
	}
	msgs := make([]any, 0, len(evs))
	for _, ev := range evs {
		msgs = append(msgs, events.ConvertEvent(ev))
		er.pos = ev.Seq
	}
	return msgs, uint64(len(evs)) == er.batch, nil
}
