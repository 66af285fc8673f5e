package app

import (
	"github.com/dloop-protocol/dloop/internal/adapters/metrics"
	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Selector usecase.AssetSelector
	Metrics  *metrics.Collector

	// Assets
	RegisterAsset *usecase.RegisterAsset
	IssueShares   *usecase.IssueShares
	ListAssets    *usecase.ListAssets

	// Governance
	SubmitProposal   *usecase.SubmitProposal
	CastVote         *usecase.CastVote
	FinalizeProposal *usecase.FinalizeProposal
	ExecuteProposal  *usecase.ExecuteProposal
	GetProposal      *usecase.GetProposal
	ListProposals    *usecase.ListProposals
	ListVotes        *usecase.ListVotes

	// Rewards
	DistributeReward   *usecase.DistributeReward
	UpdateRewardConfig *usecase.UpdateRewardConfig
	ShowConfig         *usecase.ShowConfig

	// Oracle
	PriceOracle      *usecase.AssetPriceOracle
	SetFeed          *usecase.SetFeed
	SetFallbackPrice *usecase.SetFallbackPrice
	RemoveFeed       *usecase.RemoveFeed
	ListFeeds        *usecase.ListFeeds
	PushRound        *usecase.PushRound

	// Ledger
	GetBalance *usecase.GetBalance
	MintTokens *usecase.MintTokens
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	selector usecase.AssetSelector,
	collector *metrics.Collector,
	registerAsset *usecase.RegisterAsset,
	issueShares *usecase.IssueShares,
	listAssets *usecase.ListAssets,
	submitProposal *usecase.SubmitProposal,
	castVote *usecase.CastVote,
	finalizeProposal *usecase.FinalizeProposal,
	executeProposal *usecase.ExecuteProposal,
	getProposal *usecase.GetProposal,
	listProposals *usecase.ListProposals,
	listVotes *usecase.ListVotes,
	distributeReward *usecase.DistributeReward,
	updateRewardConfig *usecase.UpdateRewardConfig,
	showConfig *usecase.ShowConfig,
	priceOracle *usecase.AssetPriceOracle,
	setFeed *usecase.SetFeed,
	setFallbackPrice *usecase.SetFallbackPrice,
	removeFeed *usecase.RemoveFeed,
	listFeeds *usecase.ListFeeds,
	pushRound *usecase.PushRound,
	getBalance *usecase.GetBalance,
	mintTokens *usecase.MintTokens,
) (*App, error) {
	return &App{
		Config:             cfg,
		Selector:           selector,
		Metrics:            collector,
		RegisterAsset:      registerAsset,
		IssueShares:        issueShares,
		ListAssets:         listAssets,
		SubmitProposal:     submitProposal,
		CastVote:           castVote,
		FinalizeProposal:   finalizeProposal,
		ExecuteProposal:    executeProposal,
		GetProposal:        getProposal,
		ListProposals:      listProposals,
		ListVotes:          listVotes,
		DistributeReward:   distributeReward,
		UpdateRewardConfig: updateRewardConfig,
		ShowConfig:         showConfig,
		PriceOracle:        priceOracle,
		SetFeed:            setFeed,
		SetFallbackPrice:   setFallbackPrice,
		RemoveFeed:         removeFeed,
		ListFeeds:          listFeeds,
		PushRound:          pushRound,
		GetBalance:         getBalance,
		MintTokens:         mintTokens,
	}, nil
}
