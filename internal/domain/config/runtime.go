package config

import (
	"time"

	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Caller is the principal the operator acts as
	Caller common.Address

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration
	MetricsOut     string

	// Config source tracking
	ConfigSource string // path of dloop.toml, empty when defaults are used

	// Resolved configurations
	Governance GovernanceConfig
	Reward     RewardSettings
	Oracle     OracleConfig
	Roles      map[string][]common.Address
	Agents     []common.Address
	LedgerFile string
}

// GovernanceConfig holds the parameters of the proposal state machine
type GovernanceConfig struct {
	QuorumBp            uint64
	VotingPeriod        time.Duration
	EvaluationWindow    time.Duration
	EarlyFinalization   bool
	RestrictedExecution bool
	Treasury            common.Address
	FeeCollector        common.Address
	InvestFeeBp         uint64
	DivestFeeBp         uint64
	FundingToken        models.TokenKind
}

// RewardSettings holds the payout wiring and the initial reward config
type RewardSettings struct {
	Pool     common.Address
	Mint     bool
	Defaults models.RewardConfig
}

// OracleConfig holds price oracle settings
type OracleConfig struct {
	RPCURL         string
	FallbackMaxAge time.Duration // 0 disables the fallback age check
	RPCRateLimit   float64       // requests per second, 0 disables limiting
	RPCTimeout     time.Duration
}
