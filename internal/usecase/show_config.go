package usecase

import (
	"context"

	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/domain/models"
)

// ShowConfigResult contains the governance parameters and the reward
// config currently in effect
type ShowConfigResult struct {
	Governance config.GovernanceConfig
	Reward     *models.RewardConfig
	// Persisted is false while the reward config still comes from dloop.toml
	Persisted    bool
	ConfigSource string
}

// ShowConfig is a use case for showing configuration
type ShowConfig struct {
	config *config.RuntimeConfig
	store  StateStore
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig, store StateStore) *ShowConfig {
	return &ShowConfig{
		config: cfg,
		store:  store,
	}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	result := &ShowConfigResult{
		Governance:   uc.config.Governance,
		ConfigSource: uc.config.ConfigSource,
	}

	err := uc.store.View(ctx, func(tx ReadTx) error {
		reward, err := effectiveRewardConfig(ctx, tx, uc.config.Reward.Defaults)
		if err != nil {
			return err
		}
		result.Reward = reward
		result.Persisted = reward.UpdatedAt != nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
