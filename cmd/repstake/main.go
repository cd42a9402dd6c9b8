// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/api"
	"github.com/vechain/repstake/api/accounts"
	"github.com/vechain/repstake/api/operator"
	"github.com/vechain/repstake/api/operator/health"
	"github.com/vechain/repstake/clock"
	"github.com/vechain/repstake/log"
	"github.com/vechain/repstake/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	storeFlags := []cli.Flag{
		configFlag,
		dataDirFlag,
		cacheFlag,
		verbosityFlag,
		jsonLogsFlag,
	}

	app := cli.App{
		Version:   fullVersion(),
		Name:      "Repstake",
		Usage:     "Reputation accruing staking ledger",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			persistFlag,
			cacheFlag,
			ownerFlag,
			minimumStakeFlag,
			multiplierFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiRequireSignatureFlag,
			apiEventsLimitFlag,
			apiBacktraceLimitFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			ntpServerFlag,
			ntpIntervalFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:   "verify",
				Usage:  "recompute the ledger totals from the account records and compare them with the stored ones",
				Flags:  storeFlags,
				Action: verifyAction,
			},
			{
				Name:      "account",
				Usage:     "print the record of an address",
				ArgsUsage: "<address>",
				Flags:     storeFlags,
				Action:    accountAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	logLevel := initLogger(cfg.Log.Verbosity, cfg.Log.JSON)

	// metrics must be initialized before any meter is resolved
	if cfg.Metrics.Enabled {
		metrics.InitializePrometheusMetrics()
	}

	inst, err := openInstance(ctx, ctx.Bool(persistFlag.Name))
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing ledger instance..."); inst.Close() }()

	if err := initLedger(inst, cfg.Ledger); err != nil {
		return err
	}

	var apiLogs atomic.Bool
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	apiHandler, apiClose := api.New(
		inst.ledger,
		inst.registry,
		inst.events,
		clock.System{},
		api.Options{
			AllowedOrigins:       cfg.API.CORS,
			RequireSignature:     cfg.API.RequireSignature,
			EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
			BacktraceLimit:       ctx.Uint64(apiBacktraceLimitFlag.Name),
			EnableReqLogger:      &apiLogs,
			SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
			Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
			EnableMetrics:        cfg.Metrics.Enabled,
		},
	)
	defer func() { logger.Info("closing API subscriptions..."); apiClose() }()

	apiSrv, err := listen("API", cfg.API.Addr, apiHandler)
	if err != nil {
		return err
	}
	servers := []*server{apiSrv}

	if cfg.Metrics.Enabled {
		srv, err := listen("metrics", cfg.Metrics.Addr, metricsHandler())
		if err != nil {
			apiSrv.Close()
			return err
		}
		servers = append(servers, srv)
	}

	h := health.New(inst.ledger, inst.events)
	if ctx.Bool(enableAdminFlag.Name) {
		srv, err := listen("admin", ctx.String(adminAddrFlag.Name), operator.New(logLevel, &apiLogs, h))
		if err != nil {
			for _, s := range servers {
				s.Close()
			}
			return err
		}
		servers = append(servers, srv)
	}

	printStartupMessage(inst, servers)

	group, groupCtx := errgroup.WithContext(exitSignal)
	for _, srv := range servers {
		group.Go(srv.Serve)
	}
	if interval := ctx.Duration(ntpIntervalFlag.Name); interval > 0 {
		group.Go(func() error {
			clock.Monitor(groupCtx, ctx.String(ntpServerFlag.Name), interval, h.ClockChecked)
			return nil
		})
	}
	group.Go(func() error {
		<-groupCtx.Done()
		for _, srv := range servers {
			logger.Info("stopping " + srv.name + " server...")
			srv.Close()
		}
		return nil
	})
	return group.Wait()
}

func verifyAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	initLogger(cfg.Log.Verbosity, cfg.Log.JSON)

	inst, err := openInstance(ctx, true)
	if err != nil {
		return err
	}
	defer inst.Close()

	return verifyLedger(handleExitSignal(), inst)
}

func accountAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expected exactly one address argument")
	}
	addr, err := account.ParseAddress(ctx.Args().First())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	initLogger(cfg.Log.Verbosity, cfg.Log.JSON)

	inst, err := openInstance(ctx, true)
	if err != nil {
		return err
	}
	defer inst.Close()

	acc, err := inst.ledger.Account(addr)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(accounts.Convert(acc), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
