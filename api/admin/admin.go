// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves the owner only ledger operations.
package admin

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/api/accounts"
	"github.com/vechain/repstake/api/utils"
	"github.com/vechain/repstake/ledger"
)

type Admin struct {
	ledger *ledger.Ledger
	auth   *utils.Authenticator
}

func New(l *ledger.Ledger, auth *utils.Authenticator) *Admin {
	return &Admin{l, auth}
}

// readBody decodes the body into v and returns the body for signature checks.
func readBody(req *http.Request, v any) ([]byte, error) {
	body, err := utils.ReadBody(req)
	if err != nil {
		return nil, err
	}
	if err := utils.ParseJSON(bytes.NewReader(body), v); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return body, nil
}

func (a *Admin) handleSetMinimumStake(w http.ResponseWriter, req *http.Request) error {
	var r MinimumStakeRequest
	body, err := readBody(req, &r)
	if err != nil {
		return err
	}
	if r.Caller == nil {
		return utils.BadRequest(errors.New("caller: missing"))
	}
	value, err := ledger.ParseAmount(r.Value)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "value"))
	}
	if err := a.auth.Check(req, body, *r.Caller); err != nil {
		return err
	}
	if err := a.ledger.SetMinimumStake(*r.Caller, value); err != nil {
		return utils.Rejected(err)
	}
	return utils.WriteJSON(w, &accounts.Value{Value: value.Dec()})
}

func (a *Admin) blacklistHandler(blacklist bool) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		user, err := account.ParseAddress(mux.Vars(req)["address"])
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "address"))
		}
		var r CallerRequest
		body, err := readBody(req, &r)
		if err != nil {
			return err
		}
		if r.Caller == nil {
			return utils.BadRequest(errors.New("caller: missing"))
		}
		if err := a.auth.Check(req, body, *r.Caller); err != nil {
			return err
		}

		if blacklist {
			err = a.ledger.BlacklistUser(*r.Caller, user)
		} else {
			err = a.ledger.RemoveFromBlacklist(*r.Caller, user)
		}
		if err != nil {
			return utils.Rejected(err)
		}
		return utils.WriteJSON(w, &Blacklisted{Address: user, Blacklisted: blacklist})
	}
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/minimum-stake").
		Methods(http.MethodPost).
		Name("POST /admin/minimum-stake").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetMinimumStake))
	sub.Path("/blacklist/{address}").
		Methods(http.MethodPut).
		Name("PUT /admin/blacklist/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.blacklistHandler(true)))
	sub.Path("/blacklist/{address}").
		Methods(http.MethodDelete).
		Name("DELETE /admin/blacklist/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.blacklistHandler(false)))
}
