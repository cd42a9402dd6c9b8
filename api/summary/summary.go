// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package summary

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/api/utils"
	"github.com/vechain/repstake/ledger"
)

// Summary is the JSON form of the ledger-wide values.
type Summary struct {
	Initialized          bool             `json:"initialized"`
	Owner                *account.Address `json:"owner"`
	MinimumStake         string           `json:"minimumStake"`
	ReputationMultiplier string           `json:"reputationMultiplier"`
	TotalStaked          string           `json:"totalStaked"`
	TotalReputation      string           `json:"totalReputation"`
	Seq                  uint64           `json:"seq"`
}

type Ledger struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Ledger {
	return &Ledger{l}
}

func (l *Ledger) handleGetSummary(w http.ResponseWriter, _ *http.Request) error {
	s, err := l.ledger.Summary()
	if err != nil {
		return err
	}
	resp := &Summary{
		Initialized:          s.Initialized,
		MinimumStake:         s.MinimumStake.Dec(),
		ReputationMultiplier: s.ReputationMultiplier.Dec(),
		TotalStaked:          s.TotalStaked.Dec(),
		TotalReputation:      s.TotalReputation.Dec(),
		Seq:                  l.ledger.Seq(),
	}
	if s.Initialized {
		owner := s.Owner
		resp.Owner = &owner
	}
	return utils.WriteJSON(w, resp)
}

func (l *Ledger) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /ledger").
		HandlerFunc(utils.WrapHandlerFunc(l.handleGetSummary))
}
