// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/vechain/repstake/api/events"
	"github.com/vechain/repstake/api/utils"
	"github.com/vechain/repstake/co"
	"github.com/vechain/repstake/eventlog"
	"github.com/vechain/repstake/log"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10

	readBatch = 100
)

// IDHeader carries the subscription id in the upgrade response.
const IDHeader = "X-Subscription-Id"

type msgReader interface {
	Read(ctx context.Context) (msgs []any, hasMore bool, err error)
}

type Subscriptions struct {
	db             *eventlog.EventLog
	backtraceLimit uint64
	upgrader       *websocket.Upgrader
	done           chan struct{}
	conns          sync.WaitGroup
	readers        co.Goes
}

// New creates the subscriptions service. A position more than backtraceLimit
// events behind the head is refused.
func New(db *eventlog.EventLog, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	return &Subscriptions{
		db:             db,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || strings.EqualFold(allowed, origin) {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func (s *Subscriptions) parsePosition(req *http.Request) (uint64, error) {
	head, err := s.db.LastSeq(req.Context())
	if err != nil {
		return 0, err
	}
	p := req.URL.Query().Get("pos")
	if p == "" {
		return head, nil
	}
	pos, err := strconv.ParseUint(p, 10, 63)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	if pos > head {
		return 0, utils.BadRequest(errors.New("pos: beyond the last event"))
	}
	if head-pos > s.backtraceLimit {
		return 0, utils.Forbidden(errors.Errorf("pos: backtrace limit of %d exceeded", s.backtraceLimit))
	}
	return pos, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	s.conns.Add(1)
	defer s.conns.Done()

	pos, err := s.parsePosition(req)
	if err != nil {
		return err
	}
	filter, err := events.ParseFilter(req.URL.Query())
	if err != nil {
		return utils.BadRequest(err)
	}
	if filter.Range != nil || filter.Options != nil || filter.After != 0 {
		return utils.BadRequest(errors.New("range, paging and after are not supported, use pos"))
	}
	reader := newEventReader(s.db, pos, filter, readBatch)

	id := uuid.New()
	conn, err := s.upgrader.Upgrade(w, req, http.Header{IDHeader: []string{id}})
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	logger.Debug("subscription opened", "id", id, "pos", pos)
	err = s.pipe(req.Context(), conn, reader)

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err != nil {
		logger.Debug("subscription failed", "id", id, "err", err)
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	}
	_ = conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait))
	_ = conn.Close()
	logger.Debug("subscription closed", "id", id)
	return nil
}

// pipe writes messages of reader to conn until the peer leaves or the service closes.
func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader msgReader) error {
	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	// the peer never sends data messages, reading only processes control frames
	s.readers.Go(func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		// take the signal before reading, so no write is missed
		written := s.db.NewEvents()
		msgs, hasMore, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return nil
			}
		}
		if hasMore {
			continue
		}

		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-written:
		}
	}
}

// Close ends every subscription and waits for them to finish.
func (s *Subscriptions) Close() {
	close(s.done)
	s.conns.Wait()
	s.readers.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
