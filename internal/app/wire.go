//go:build wireinject
// +build wireinject

package app

import (
	"github.com/dloop-protocol/dloop/internal/adapters"
	"github.com/dloop-protocol/dloop/internal/config"
	"github.com/dloop-protocol/dloop/internal/logging"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/google/wire"
	"github.com/spf13/viper"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Guards
		usecase.NewInFlight,

		// Assets
		usecase.NewRegisterAsset,
		usecase.NewIssueShares,
		usecase.NewListAssets,

		// Governance
		usecase.NewSubmitProposal,
		usecase.NewCastVote,
		usecase.NewFinalizeProposal,
		usecase.NewExecuteProposal,
		usecase.NewGetProposal,
		usecase.NewListProposals,
		usecase.NewListVotes,

		// Rewards
		usecase.NewDistributeReward,
		usecase.NewUpdateRewardConfig,
		usecase.NewShowConfig,

		// Oracle
		usecase.NewSetFeed,
		usecase.NewSetFallbackPrice,
		usecase.NewRemoveFeed,
		usecase.NewListFeeds,
		usecase.NewPushRound,

		// Ledger
		usecase.NewGetBalance,
		usecase.NewMintTokens,

		// App
		NewApp,
	)
	return nil, nil, nil
}
