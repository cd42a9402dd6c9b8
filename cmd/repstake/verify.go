// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/ledger"
)

// totals are the aggregates a ledger must agree with.
type totals struct {
	TotalStaked     string `json:"totalStaked"`
	TotalReputation string `json:"totalReputation"`
	LastSeq         uint64 `json:"lastSeq"`
}

func verifyLedger(ctx context.Context, inst *instance) error {
	fmt.Println(">> Verifying ledger <<")

	summary, err := inst.ledger.Summary()
	if err != nil {
		return err
	}
	lastSeq, err := inst.events.LastSeq(ctx)
	if err != nil {
		return err
	}

	var n int64
	if err := inst.ledger.Accounts(func(account.Address, *ledger.Account) error {
		n++
		return nil
	}); err != nil {
		return err
	}

	pb := pb.New64(n).
		Set64(0).
		SetMaxWidth(90).
		Start()
	defer func() { pb.NotPrint = true }()

	var (
		staked      = new(uint256.Int)
		reputation  = new(uint256.Int)
		blacklisted int
		overflow    bool
	)
	if err := inst.ledger.Accounts(func(addr account.Address, a *ledger.Account) error {
		if a.IsEmpty() {
			return errors.Errorf("empty record stored for %v", addr)
		}
		if a.Blacklisted {
			blacklisted++
		}
		if _, overflow = staked.AddOverflow(staked, a.Staked); overflow {
			return errors.New("sum of stakes overflows")
		}
		if _, overflow = reputation.AddOverflow(reputation, a.Reputation); overflow {
			return errors.New("sum of reputation overflows")
		}
		pb.Add64(1)

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		return nil
	}); err != nil {
		return err
	}
	pb.Finish()

	stored := &totals{
		TotalStaked:     summary.TotalStaked.Dec(),
		TotalReputation: summary.TotalReputation.Dec(),
		LastSeq:         inst.ledger.Seq(),
	}
	computed := &totals{
		TotalStaked:     staked.Dec(),
		TotalReputation: reputation.Dec(),
		LastSeq:         lastSeq,
	}
	if *stored != *computed {
		return errors.Errorf("ledger inconsistent:\n%v", diffTotals(stored, computed))
	}

	fmt.Printf("%v accounts verified, %v blacklisted\n", n, blacklisted)
	return nil
}

func diffTotals(stored, computed *totals) string {
	e, _ := json.MarshalIndent(stored, "", "  ")
	a, _ := json.MarshalIndent(computed, "", "  ")

	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(e)),
		B:        difflib.SplitLines(string(a)),
		FromFile: "Stored",
		ToFile:   "Computed",
		Context:  1,
	})
	return diff
}
