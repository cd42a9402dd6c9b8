// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/repstake/config"
	"github.com/vechain/repstake/eventlog"
	"github.com/vechain/repstake/issuer"
	"github.com/vechain/repstake/ledger"
	"github.com/vechain/repstake/log"
	"github.com/vechain/repstake/lvldb"
	"github.com/vechain/repstake/metrics"
)

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// loadConfig reads the config file and applies the flags explicitly set on top.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.String(configFlag.Name))
	if err != nil {
		return nil, err
	}

	if ctx.IsSet(ownerFlag.Name) {
		cfg.Ledger.Owner = ctx.String(ownerFlag.Name)
	}
	if ctx.IsSet(minimumStakeFlag.Name) {
		cfg.Ledger.MinimumStake = ctx.String(minimumStakeFlag.Name)
	}
	if ctx.IsSet(multiplierFlag.Name) {
		cfg.Ledger.ReputationMultiplier = ctx.Uint64(multiplierFlag.Name)
	}
	if ctx.IsSet(apiAddrFlag.Name) {
		cfg.API.Addr = ctx.String(apiAddrFlag.Name)
	}
	if ctx.IsSet(apiCorsFlag.Name) {
		cfg.API.CORS = ctx.String(apiCorsFlag.Name)
	}
	if ctx.IsSet(apiRequireSignatureFlag.Name) {
		cfg.API.RequireSignature = ctx.BoolT(apiRequireSignatureFlag.Name)
	}
	if ctx.IsSet(enableMetricsFlag.Name) {
		cfg.Metrics.Enabled = true
	}
	if ctx.IsSet(metricsAddrFlag.Name) {
		cfg.Metrics.Addr = ctx.String(metricsAddrFlag.Name)
	}
	if ctx.IsSet(verbosityFlag.Name) {
		if cfg.Log.Verbosity, err = readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name)); err != nil {
			return nil, errors.WithMessage(err, verbosityFlag.Name)
		}
	}
	if ctx.IsSet(jsonLogsFlag.Name) {
		cfg.Log.JSON = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initLogger(verbosity int, jsonLogs bool) *slog.LevelVar {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(verbosity))

	var handler slog.Handler
	if jsonLogs {
		handler = log.JSONHandler(os.Stdout, &level)
	} else {
		useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		handler = log.TerminalHandler(os.Stderr, &level, useColor)
	}
	log.SetDefault(handler)
	return &level
}

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, errors.Errorf("value %d exceeds the int range", val)
	}
	return int(val), nil
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".org.vechain.repstake")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() (int, error) {
	limit, err := fdlimit.Current()
	if err != nil {
		return 0, errors.Wrap(err, "get fd limit")
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120, nil
	}
	return n, nil
}

// instance is the set of stores a ledger runs on.
type instance struct {
	dir      string
	db       *lvldb.LevelDB
	events   *eventlog.EventLog
	ledger   *ledger.Ledger
	registry *issuer.Registry
}

func (inst *instance) Close() {
	if err := inst.events.Close(); err != nil {
		logger.Warn("failed to close event log", "err", err)
	}
	if err := inst.db.Close(); err != nil {
		logger.Warn("failed to close ledger database", "err", err)
	}
}

func openInstance(ctx *cli.Context, persist bool) (inst *instance, err error) {
	cacheFlagMB, err := readIntFromUInt64Flag(ctx.Uint64(cacheFlag.Name))
	if err != nil {
		return nil, errors.WithMessage(err, cacheFlag.Name)
	}
	cacheMB := normalizeCacheSize(cacheFlagMB)
	logger.Debug("cache size(MB)", "size", cacheMB)

	inst = &instance{dir: "Memory"}
	if persist {
		if inst.dir, err = makeDataDir(ctx); err != nil {
			return nil, err
		}

		// Ensure Go's GC ignores the database cache for trigger percentage
		gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
		logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
		debug.SetGCPercent(int(gogc))

		fdCache, err := suggestFDCache()
		if err != nil {
			return nil, err
		}
		logger.Debug("fd cache", "n", fdCache)

		dir := filepath.Join(inst.dir, "ledger.db")
		if inst.db, err = lvldb.New(dir, lvldb.Options{
			CacheSize:              cacheMB / 2,
			OpenFilesCacheCapacity: fdCache,
		}); err != nil {
			return nil, errors.WithMessagef(err, "open ledger database [%v]", dir)
		}
		dir = filepath.Join(inst.dir, "events.db")
		if inst.events, err = eventlog.New(dir); err != nil {
			inst.db.Close()
			return nil, errors.WithMessagef(err, "open event log [%v]", dir)
		}
	} else {
		if inst.db, err = lvldb.NewMem(); err != nil {
			return nil, errors.WithMessage(err, "open ledger database")
		}
		if inst.events, err = eventlog.NewMem(); err != nil {
			inst.db.Close()
			return nil, errors.WithMessage(err, "open event log")
		}
	}

	// a record takes a few hundred bytes, give the entry cache the other half
	if inst.ledger, err = ledger.New(inst.db, ledger.WithCacheSize(cacheMB/2*4096)); err != nil {
		inst.Close()
		return nil, errors.WithMessage(err, "open ledger")
	}
	inst.ledger.Subscribe(inst.events.Observer())
	inst.registry = issuer.New(inst.db)
	return inst, nil
}

// initLedger initializes an empty ledger and registry with the configured owner.
func initLedger(inst *instance, cfg config.Ledger) error {
	owner, err := cfg.OwnerAddress()
	if err != nil {
		return err
	}
	summary, err := inst.ledger.Summary()
	if err != nil {
		return err
	}

	if owner.IsZero() {
		if !summary.Initialized {
			logger.Warn("ledger not initialized, owner operations are unavailable", "flag", ownerFlag.Name)
		}
		return nil
	}

	if !summary.Initialized {
		minimumStake, err := cfg.MinimumStakeAmount()
		if err != nil {
			return err
		}
		if err := inst.ledger.Initialize(owner, minimumStake, uint256.NewInt(cfg.ReputationMultiplier)); err != nil {
			return errors.WithMessage(err, "initialize ledger")
		}
	} else if summary.Owner != owner {
		logger.Warn("configured owner ignored, ledger already initialized", "owner", summary.Owner, "configured", owner)
	}

	registryOwner, err := inst.registry.Owner()
	if err != nil {
		return err
	}
	if registryOwner.IsZero() {
		if err := inst.registry.Initialize(owner); err != nil {
			return errors.WithMessage(err, "initialize issuer registry")
		}
	}
	return nil
}

// server is an http server bound to its listener.
type server struct {
	name     string
	url      string
	srv      *http.Server
	listener net.Listener
}

func listen(name, addr string, handler http.Handler) (*server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}
	return &server{
		name:     name,
		url:      "http://" + listener.Addr().String() + "/",
		srv:      &http.Server{Handler: handler, ReadHeaderTimeout: time.Second},
		listener: listener,
	}, nil
}

// Serve blocks until the server is closed.
func (s *server) Serve() error {
	if err := s.srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "serve %s", s.name)
	}
	return nil
}

func (s *server) Close() {
	s.srv.Close()
	s.listener.Close()
}

func metricsHandler() http.Handler {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	return handlers.CompressHandler(router)
}

func printStartupMessage(inst *instance, servers []*server) {
	owner, minimumStake, multiplier := "not initialized", "-", "-"
	if summary, err := inst.ledger.Summary(); err != nil {
		logger.Warn("failed to read ledger summary", "err", err)
	} else if summary.Initialized {
		owner = summary.Owner.String()
		minimumStake = summary.MinimumStake.Dec()
		multiplier = summary.ReputationMultiplier.Dec() + " bps"
	}

	info := fmt.Sprintf(`Starting Repstake/%v
    Owner         [ %v ]
    Minimum stake [ %v ]
    Multiplier    [ %v ]
    Last event    [ #%v ]
    Instance dir  [ %v ]
`,
		fullVersion(),
		owner,
		minimumStake,
		multiplier,
		inst.ledger.Seq(),
		inst.dir)
	for _, s := range servers {
		info += fmt.Sprintf("    %-13v [ %v ]\n", s.name+" portal", s.url)
	}
	fmt.Print(info)
}
