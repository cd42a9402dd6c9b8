// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/repstake/api/accounts"
	"github.com/vechain/repstake/api/admin"
	"github.com/vechain/repstake/api/events"
	"github.com/vechain/repstake/api/issuers"
	"github.com/vechain/repstake/api/middleware"
	"github.com/vechain/repstake/api/staking"
	"github.com/vechain/repstake/api/subscriptions"
	"github.com/vechain/repstake/api/summary"
	"github.com/vechain/repstake/api/utils"
	"github.com/vechain/repstake/clock"
	"github.com/vechain/repstake/eventlog"
	"github.com/vechain/repstake/issuer"
	"github.com/vechain/repstake/ledger"
	"github.com/vechain/repstake/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins string
	// RequireSignature applies to staking; owner and registry operations are always signed.
	RequireSignature     bool
	EventsLimit          uint64
	BacktraceLimit       uint64
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
}

// New return api router
func New(
	l *ledger.Ledger,
	registry *issuer.Registry,
	eventLog *eventlog.EventLog,
	clk clock.Clock,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	// owner and registry operations are always signed
	signed := utils.NewAuthenticator(true, clk)
	stakingAuth := signed
	if !opts.RequireSignature {
		stakingAuth = utils.NewAuthenticator(false, clk)
	}

	router := mux.NewRouter()

	summary.New(l).
		Mount(router, "/ledger")
	accounts.New(l).
		Mount(router, "/accounts")
	staking.New(l, clk, stakingAuth).
		Mount(router, "/staking")
	admin.New(l, signed).
		Mount(router, "/admin")
	events.New(eventLog, opts.EventsLimit).
		Mount(router, "/events")
	issuers.New(registry, signed).
		Mount(router, "/issuers")
	subs := subscriptions.New(eventLog, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}
	if opts.EnableReqLogger != nil {
		router.Use(middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors))
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{
			"content-type",
			strings.ToLower(utils.SignatureHeader),
			strings.ToLower(utils.SignatureTimeHeader),
		}),
		handlers.ExposedHeaders([]string{strings.ToLower(subscriptions.IDHeader)}),
	)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
