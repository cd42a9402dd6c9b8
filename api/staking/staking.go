// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/api/accounts"
	"github.com/vechain/repstake/api/utils"
	"github.com/vechain/repstake/clock"
	"github.com/vechain/repstake/ledger"
)

// Staking serves stake and withdraw, taking the operation time from a clock.
type Staking struct {
	ledger *ledger.Ledger
	clock  clock.Clock
	auth   *utils.Authenticator
}

func New(l *ledger.Ledger, clk clock.Clock, auth *utils.Authenticator) *Staking {
	return &Staking{
		ledger: l,
		clock:  clk,
		auth:   auth,
	}
}

type operation func(staker account.Address, amount *uint256.Int, now uint64) error

// handler decodes and authenticates the request, applies op and responds the caller's record.
func (s *Staking) handler(op operation) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		body, err := utils.ReadBody(req)
		if err != nil {
			return err
		}
		var r Request
		if err := utils.ParseJSON(bytes.NewReader(body), &r); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if err := r.validate(); err != nil {
			return utils.BadRequest(err)
		}
		amount, err := ledger.ParseAmount(r.Amount)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "amount"))
		}
		if err := s.auth.Check(req, body, *r.Caller); err != nil {
			return err
		}

		if err := op(*r.Caller, amount, s.clock.Now()); err != nil {
			return utils.Rejected(err)
		}

		acc, err := s.ledger.Account(*r.Caller)
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, accounts.Convert(acc))
	}
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/stake").
		Methods(http.MethodPost).
		Name("POST /staking/stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handler(s.ledger.Stake)))
	sub.Path("/withdraw").
		Methods(http.MethodPost).
		Name("POST /staking/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(s.handler(s.ledger.Withdraw)))
}
