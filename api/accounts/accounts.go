// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/api/utils"
	"github.com/vechain/repstake/ledger"
)

type Accounts struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Accounts {
	return &Accounts{l}
}

func parseAddress(req *http.Request) (account.Address, error) {
	addr, err := account.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return account.Address{}, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return addr, nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	acc, err := a.ledger.Account(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, Convert(acc))
}

func (a *Accounts) valueHandler(get func(account.Address) (*uint256.Int, error)) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		addr, err := parseAddress(req)
		if err != nil {
			return err
		}
		v, err := get(addr)
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, &Value{v.Dec()})
	}
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/stake").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/stake").
		HandlerFunc(utils.WrapHandlerFunc(a.valueHandler(a.ledger.StakeOf)))
	sub.Path("/{address}/reputation").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/reputation").
		HandlerFunc(utils.WrapHandlerFunc(a.valueHandler(a.ledger.ReputationOf)))
}
