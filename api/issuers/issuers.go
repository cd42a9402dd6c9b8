// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package issuers

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/api/utils"
	"github.com/vechain/repstake/issuer"
)

type Issuers struct {
	registry *issuer.Registry
	auth     *utils.Authenticator
}

func New(registry *issuer.Registry, auth *utils.Authenticator) *Issuers {
	return &Issuers{registry, auth}
}

func optional(addr account.Address) *account.Address {
	if addr.IsZero() {
		return nil
	}
	return &addr
}

func (i *Issuers) handleGetRegistry(w http.ResponseWriter, _ *http.Request) error {
	owner, err := i.registry.Owner()
	if err != nil {
		return err
	}
	pending, err := i.registry.PendingOwner()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Registry{
		Owner:        optional(owner),
		PendingOwner: optional(pending),
	})
}

func (i *Issuers) handleGetIssuer(w http.ResponseWriter, req *http.Request) error {
	addr, err := account.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	ok, err := i.registry.IsIssuer(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Issuer{Address: addr, Issuer: ok})
}

// handler decodes and authenticates a Request, then applies op.
func (i *Issuers) handler(op func(*Request) error) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		body, err := utils.ReadBody(req)
		if err != nil {
			return err
		}
		var r Request
		if err := utils.ParseJSON(bytes.NewReader(body), &r); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if r.Caller == nil {
			return utils.BadRequest(errors.New("caller: missing"))
		}
		if err := i.auth.Check(req, body, *r.Caller); err != nil {
			return err
		}
		if err := op(&r); err != nil {
			return utils.Rejected(err)
		}
		return i.handleGetRegistry(w, req)
	}
}

func (i *Issuers) register(r *Request) error {
	return i.registry.RegisterAsIssuer(*r.Caller)
}

func (i *Issuers) transferOwnership(r *Request) error {
	if r.NewOwner == nil {
		return utils.BadRequest(errors.New("newOwner: missing"))
	}
	return i.registry.TransferOwnership(*r.Caller, *r.NewOwner)
}

func (i *Issuers) acceptOwnership(r *Request) error {
	return i.registry.AcceptOwnership(*r.Caller)
}

func (i *Issuers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /issuers").
		HandlerFunc(utils.WrapHandlerFunc(i.handleGetRegistry))
	sub.Path("/register").
		Methods(http.MethodPost).
		Name("POST /issuers/register").
		HandlerFunc(utils.WrapHandlerFunc(i.handler(i.register)))
	sub.Path("/transfer-ownership").
		Methods(http.MethodPost).
		Name("POST /issuers/transfer-ownership").
		HandlerFunc(utils.WrapHandlerFunc(i.handler(i.transferOwnership)))
	sub.Path("/accept-ownership").
		Methods(http.MethodPost).
		Name("POST /issuers/accept-ownership").
		HandlerFunc(utils.WrapHandlerFunc(i.handler(i.acceptOwnership)))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /issuers/{address}").
		HandlerFunc(utils.WrapHandlerFunc(i.handleGetIssuer))
}
