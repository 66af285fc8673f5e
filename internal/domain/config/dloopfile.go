package config

// DloopFileConfig represents the full dloop.toml configuration file.
// Values are kept as strings where they hold big integers, addresses or
// durations; the provider resolves them into RuntimeConfig.
type DloopFileConfig struct {
	Governance GovernanceFileConfig `toml:"governance"`
	Reward     RewardFileConfig     `toml:"reward"`
	Oracle     OracleFileConfig     `toml:"oracle"`
	Roles      map[string][]string  `toml:"roles"`
	Identity   IdentityFileConfig   `toml:"identity"`
	Ledger     LedgerFileConfig     `toml:"ledger"`
}

// GovernanceFileConfig represents the [governance] section
type GovernanceFileConfig struct {
	QuorumBp            *uint64 `toml:"quorum_bp,omitempty"`
	VotingPeriod        string  `toml:"voting_period,omitempty"`
	EvaluationWindow    string  `toml:"evaluation_window,omitempty"`
	EarlyFinalization   bool    `toml:"early_finalization,omitempty"`
	RestrictedExecution bool    `toml:"restricted_execution,omitempty"`
	Treasury            string  `toml:"treasury,omitempty"`
	FeeCollector        string  `toml:"fee_collector,omitempty"`
	InvestFeeBp         *uint64 `toml:"invest_fee_bp,omitempty"`
	DivestFeeBp         *uint64 `toml:"divest_fee_bp,omitempty"`
	FundingToken        string  `toml:"funding_token,omitempty"`
}

// RewardFileConfig represents the [reward] section
type RewardFileConfig struct {
	Pool                          string  `toml:"pool,omitempty"`
	Mint                          bool    `toml:"mint,omitempty"`
	BaseReward                    string  `toml:"base_reward,omitempty"`
	ParticipationBonusThresholdBp *uint64 `toml:"participation_bonus_threshold_bp,omitempty"`
	ParticipationBonusRateBp      *uint64 `toml:"participation_bonus_rate_bp,omitempty"`
	QualityMultiplierThresholdBp  *uint64 `toml:"quality_multiplier_threshold_bp,omitempty"`
	QualityMultiplierRateBp       *uint64 `toml:"quality_multiplier_rate_bp,omitempty"`
	AINodeMultiplierRateBp        *uint64 `toml:"ai_node_multiplier_rate_bp,omitempty"`
	RewardCap                     string  `toml:"reward_cap,omitempty"`
	Cooldown                      string  `toml:"cooldown,omitempty"`
}

// OracleFileConfig represents the [oracle] section
type OracleFileConfig struct {
	RPCURL         string  `toml:"rpc_url,omitempty"`
	FallbackMaxAge string  `toml:"fallback_max_age,omitempty"`
	RPCRateLimit   float64 `toml:"rpc_rate_limit,omitempty"`
	RPCTimeout     string  `toml:"rpc_timeout,omitempty"`
}

// IdentityFileConfig represents the [identity] section
type IdentityFileConfig struct {
	Agents []string `toml:"agents,omitempty"`
}

// LedgerFileConfig represents the [ledger] section
type LedgerFileConfig struct {
	File string `toml:"file,omitempty"`
}
