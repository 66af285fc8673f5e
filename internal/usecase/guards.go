package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/ethereum/go-ethereum/common"
)

// requireRole fails unless principal holds role or the admin role
func requireRole(ctx context.Context, roles RoleChecker, principal common.Address, role domain.Role) error {
	ok, err := roles.HasRole(ctx, principal, role)
	if err != nil {
		return fmt.Errorf("failed to check role %s: %w", role, err)
	}
	if ok {
		return nil
	}
	if role != domain.RoleAdmin {
		ok, err = roles.HasRole(ctx, principal, domain.RoleAdmin)
		if err != nil {
			return fmt.Errorf("failed to check role %s: %w", domain.RoleAdmin, err)
		}
		if ok {
			return nil
		}
	}
	return domain.Unauthorized(principal, role)
}

// InFlight rejects reentrant calls on the same proposal. One instance is
// shared by every use case that moves funds for a proposal.
type InFlight struct {
	mu     sync.Mutex
	active map[uint64]string
}

// NewInFlight creates an empty guard
func NewInFlight() *InFlight {
	return &InFlight{active: make(map[uint64]string)}
}

// Enter marks the proposal busy for op. The returned function releases it.
func (g *InFlight) Enter(proposalID uint64, op string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if holder, busy := g.active[proposalID]; busy {
		return nil, fmt.Errorf("%w: proposal %d is busy in %s", domain.ErrReentrantCall, proposalID, holder)
	}
	g.active[proposalID] = op
	return func() {
		g.mu.Lock()
		delete(g.active, proposalID)
		g.mu.Unlock()
	}, nil
}
