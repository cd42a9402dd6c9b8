// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/api/utils"
	"github.com/vechain/repstake/eventlog"
	"github.com/vechain/repstake/ledger"
)

type Events struct {
	db    *eventlog.EventLog
	limit uint64
}

func New(db *eventlog.EventLog, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

func parseUint(query url.Values, name string) (*uint64, error) {
	s := query.Get(name)
	if s == "" {
		return nil, nil
	}
	// sqlite binds signed integers only
	v, err := strconv.ParseUint(s, 10, 63)
	if err != nil {
		return nil, errors.WithMessage(err, name)
	}
	return &v, nil
}

// ParseFilter builds an event log filter from query parameters:
// staker, kind (repeated or comma separated), after, from, to, offset, limit and order.
func ParseFilter(query url.Values) (*eventlog.Filter, error) {
	filter := &eventlog.Filter{Order: eventlog.ASC}

	if s := query.Get("staker"); s != "" {
		addr, err := account.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "staker")
		}
		filter.Account = &addr
	}

	for _, v := range query["kind"] {
		for _, k := range strings.Split(v, ",") {
			kind := ledger.EventKind(strings.TrimSpace(k))
			if !kind.Valid() {
				return nil, fmt.Errorf("kind: unknown event kind %q", kind)
			}
			filter.Kinds = append(filter.Kinds, kind)
		}
	}

	after, err := parseUint(query, "after")
	if err != nil {
		return nil, err
	}
	if after != nil {
		filter.After = *after
	}

	from, err := parseUint(query, "from")
	if err != nil {
		return nil, err
	}
	to, err := parseUint(query, "to")
	if err != nil {
		return nil, err
	}
	switch {
	case to != nil:
		filter.Range = &eventlog.Range{To: *to}
		if from != nil {
			if *to < *from {
				return nil, errors.New("to must be greater than or equal to from")
			}
			filter.Range.From = *from
		}
	case from != nil && *from > 0:
		// a To below From leaves the range unbounded above
		filter.Range = &eventlog.Range{From: *from}
	}

	offset, err := parseUint(query, "offset")
	if err != nil {
		return nil, err
	}
	limit, err := parseUint(query, "limit")
	if err != nil {
		return nil, err
	}
	if offset != nil || limit != nil {
		filter.Options = &eventlog.Options{}
		if offset != nil {
			filter.Options.Offset = *offset
		}
		if limit != nil {
			filter.Options.Limit = *limit
		}
	}

	switch order := eventlog.Order(strings.ToLower(query.Get("order"))); order {
	case "", eventlog.ASC:
	case eventlog.DESC:
		filter.Order = eventlog.DESC
	default:
		return nil, fmt.Errorf("order: unknown order %q", order)
	}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := ParseFilter(req.URL.Query())
	if err != nil {
		return utils.BadRequest(err)
	}
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Options == nil {
		// one more than the limit to detect an oversized result
		filter.Options = &eventlog.Options{Limit: e.limit + 1}
	} else if filter.Options.Limit == 0 {
		filter.Options.Limit = e.limit + 1
	}

	events, err := e.db.Filter(req.Context(), filter)
	if err != nil {
		return err
	}
	if len(events) > int(e.limit) {
		return utils.Forbidden(fmt.Errorf("the number of filtered events exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}

	res := make([]*Event, 0, len(events))
	for _, ev := range events {
		res = append(res, ConvertEvent(ev))
	}
	return utils.WriteJSON(w, res)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
