package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// UpdateRewardConfig replaces the reward parameters
type UpdateRewardConfig struct {
	store    StateStore
	roles    RoleChecker
	clock    Clock
	log      *slog.Logger
	defaults models.RewardConfig
}

// NewUpdateRewardConfig creates a new update reward config use case
func NewUpdateRewardConfig(
	cfg *config.RuntimeConfig,
	store StateStore,
	roles RoleChecker,
	clock Clock,
	log *slog.Logger,
) *UpdateRewardConfig {
	return &UpdateRewardConfig{
		store:    store,
		roles:    roles,
		clock:    clock,
		log:      log,
		defaults: cfg.Reward.Defaults,
	}
}

// UpdateRewardConfigParams contains parameters for updating the reward config
type UpdateRewardConfigParams struct {
	Caller common.Address
	Config *models.RewardConfig
}

// Run validates and stores the new config as a whole
func (u *UpdateRewardConfig) Run(ctx context.Context, params UpdateRewardConfigParams) (*models.RewardConfig, error) {
	if err := requireRole(ctx, u.roles, params.Caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := domain.ValidateRewardConfig(params.Config); err != nil {
		return nil, err
	}

	next := params.Config.Clone()
	now := u.clock.Now()
	next.UpdatedAt = &now

	err := u.store.Update(ctx, func(tx Tx) error {
		return tx.SaveRewardConfig(ctx, next)
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("reward config updated", "baseReward", next.BaseReward.String(), "cap", next.RewardCap.String(),
		"cooldown", next.Cooldown)
	return next, nil
}

// Current returns the effective reward config, so callers can build a
// modified copy for Run
func (u *UpdateRewardConfig) Current(ctx context.Context) (*models.RewardConfig, error) {
	var current *models.RewardConfig
	err := u.store.View(ctx, func(tx ReadTx) error {
		var err error
		current, err = effectiveRewardConfig(ctx, tx, u.defaults)
		return err
	})
	return current, err
}

// effectiveRewardConfig returns the stored config, or the configured
// defaults until the first update
func effectiveRewardConfig(ctx context.Context, tx ReadTx, defaults models.RewardConfig) (*models.RewardConfig, error) {
	cfg, err := tx.GetRewardConfig(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return defaults.Clone(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
