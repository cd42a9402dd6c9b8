// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/repstake/clock"
	"github.com/vechain/repstake/log"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to the YAML configuration file",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for ledger and event data",
	}
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "keep ledger data on disk instead of in memory",
	}
	cacheFlag = cli.Uint64Flag{
		Name:  "cache",
		Value: 256,
		Usage: "megabytes of ram allocated to the ledger database",
	}
	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "address that initializes an empty ledger and the issuer registry",
	}
	minimumStakeFlag = cli.StringFlag{
		Name:  "minimum-stake",
		Value: "100",
		Usage: "minimum amount for a stake, applied on initialization",
	}
	multiplierFlag = cli.Uint64Flag{
		Name:  "reputation-multiplier",
		Value: 5000,
		Usage: "reputation multiplier in basis points (max 50000), applied on initialization",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8680",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiRequireSignatureFlag = cli.BoolTFlag{
		Name:  "api-require-signature",
		Usage: "require staking requests to be signed by their caller, owner and registry requests always are",
	}
	apiEventsLimitFlag = cli.Uint64Flag{
		Name:  "api-events-limit",
		Value: 1000,
		Usage: "limit the number of events returned by /events",
	}
	apiBacktraceLimitFlag = cli.Uint64Flag{
		Name:  "api-backtrace-limit",
		Value: 1000,
		Usage: "limit the distance between 'pos' and the head for event subscriptions",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Value: 0,
		Usage: "all API requests slower than this threshold (in ms) are logged",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log every API request answered with a 5xx status",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}
	ntpServerFlag = cli.StringFlag{
		Name:  "ntp-server",
		Value: clock.DefaultNTPServer,
		Usage: "NTP server queried for the clock offset check",
	}
	ntpIntervalFlag = cli.DurationFlag{
		Name:  "ntp-interval",
		Value: 10 * time.Minute,
		Usage: "interval between clock offset checks, 0 disables them",
	}
)
