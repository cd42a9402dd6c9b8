// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/repstake/log"
)

var logger = log.WithContext("pkg", "clock")

// DefaultNTPServer is queried when no server is configured.
const DefaultNTPServer = "pool.ntp.org"

// MaxOffset is the clock offset above which a warning is logged.
// Cooldown checks are second granular, so anything beyond a few seconds matters.
const MaxOffset = 5 * time.Second

var queryNTP = func(server string) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		return 0, err
	}
	return resp.ClockOffset, nil
}

// CheckOffset queries server and reports whether the local clock drifts by more than MaxOffset.
func CheckOffset(server string) (offset time.Duration, ok bool, err error) {
	offset, err = queryNTP(server)
	if err != nil {
		return 0, false, err
	}
	abs := offset
	if abs < 0 {
		abs = -abs
	}
	return offset, abs <= MaxOffset, nil
}

// Reporter receives the result of every successful offset check.
type Reporter func(offset time.Duration, ok bool)

func checkClockOffset(server string, report Reporter) {
	offset, ok, err := CheckOffset(server)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if !ok {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(offset))
	}
	if report != nil {
		report(offset, ok)
	}
}

// Monitor checks the clock offset once immediately and then on every interval until ctx is done.
// report may be nil.
func Monitor(ctx context.Context, server string, interval time.Duration, report Reporter) {
	if server == "" {
		server = DefaultNTPServer
	}
	checkClockOffset(server, report)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkClockOffset(server, report)
		}
	}
}
