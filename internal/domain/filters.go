package domain

import (
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// ProposalFilter defines filtering options for proposals
type ProposalFilter struct {
	State    models.ProposalState
	Kind     models.ProposalKind
	Asset    *common.Address
	Proposer *common.Address
}

// Matches reports whether p passes the filter. State compares against the
// stored state; lifecycle phases are resolved by the caller.
func (f ProposalFilter) Matches(p *models.Proposal) bool {
	if f.State != "" && p.State != f.State {
		return false
	}
	if f.Kind != "" && p.Kind != f.Kind {
		return false
	}
	if f.Asset != nil && p.Asset != *f.Asset {
		return false
	}
	if f.Proposer != nil && p.Proposer != *f.Proposer {
		return false
	}
	return true
}
