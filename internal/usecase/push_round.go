package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// PushRound publishes a reading to a local price source. It stands in for
// the feed operator on development networks.
type PushRound struct {
	publisher RoundPublisher
	roles     RoleChecker
	clock     Clock
	log       *slog.Logger
}

// NewPushRound creates a new push round use case
func NewPushRound(publisher RoundPublisher, roles RoleChecker, clock Clock, log *slog.Logger) *PushRound {
	return &PushRound{
		publisher: publisher,
		roles:     roles,
		clock:     clock,
		log:       log,
	}
}

// PushRoundParams contains parameters for publishing a round
type PushRoundParams struct {
	Caller   common.Address
	Source   common.Address
	Answer   *big.Int
	Decimals uint8
	// Age backdates the round, zero publishes it at the current time
	Age time.Duration
}

// Run executes the use case
func (p *PushRound) Run(ctx context.Context, params PushRoundParams) (*models.Round, error) {
	if err := requireRole(ctx, p.roles, params.Caller, domain.RoleOracleAdmin); err != nil {
		return nil, err
	}
	if params.Source == (common.Address{}) {
		return nil, fmt.Errorf("%w: source address is required", domain.ErrInvalidFeed)
	}
	if params.Answer == nil {
		return nil, fmt.Errorf("%w: answer is required", domain.ErrInvalidPrice)
	}
	if params.Decimals > domain.MaxFeedDecimals {
		return nil, fmt.Errorf("%w: decimals %d exceeds %d", domain.ErrInvalidFeed, params.Decimals, domain.MaxFeedDecimals)
	}

	round := &models.Round{
		Answer:    new(big.Int).Set(params.Answer),
		Decimals:  params.Decimals,
		UpdatedAt: p.clock.Now().Add(-params.Age),
	}
	if err := p.publisher.PublishRound(ctx, params.Source, round); err != nil {
		return nil, fmt.Errorf("failed to publish round: %w", err)
	}

	p.log.Info("round published", "source", params.Source.Hex(), "round", round.RoundID,
		"answer", round.Answer.String(), "decimals", round.Decimals)
	return round, nil
}
