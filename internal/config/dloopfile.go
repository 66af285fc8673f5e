package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

// Defaults applied when dloop.toml omits a value
const (
	DefaultQuorumBp         = 3000
	DefaultVotingPeriod     = 72 * time.Hour
	DefaultEvaluationWindow = 7 * 24 * time.Hour
	DefaultInvestFeeBp      = 50
	DefaultDivestFeeBp      = 50
	DefaultFundingToken     = "USDC"
	DefaultRPCTimeout       = 10 * time.Second

	DefaultBaseReward                    = "100"
	DefaultRewardCap                     = "1000"
	DefaultRewardCooldown                = 24 * time.Hour
	DefaultParticipationBonusThresholdBp = 5000
	DefaultParticipationBonusRateBp      = 2000
	DefaultQualityMultiplierThresholdBp  = 7000
	DefaultQualityMultiplierRateBp       = 12000
	DefaultAINodeMultiplierRateBp        = 11000
)

// loadEnvFiles loads .env and .env.local from the project root
func loadEnvFiles(projectRoot string) {
	for _, envFile := range []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	} {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadDloopConfig loads and parses dloop.toml if it exists. Returns an empty
// config and an empty path when the file does not exist.
func loadDloopConfig(projectRoot string) (*config.DloopFileConfig, string, error) {
	path := filepath.Join(projectRoot, ConfigFile)

	var cfg config.DloopFileConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &cfg, "", nil
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := lo.Map(undecoded, func(k toml.Key, _ int) string { return k.String() })
		return nil, "", fmt.Errorf("unknown keys in %s: %s", ConfigFile, strings.Join(keys, ", "))
	}

	expandEnv(&cfg)
	return &cfg, path, nil
}

// expandEnv expands ${VAR} references in every string field that may hold
// an address, URL or path
func expandEnv(cfg *config.DloopFileConfig) {
	g := &cfg.Governance
	g.Treasury = os.ExpandEnv(g.Treasury)
	g.FeeCollector = os.ExpandEnv(g.FeeCollector)

	cfg.Reward.Pool = os.ExpandEnv(cfg.Reward.Pool)
	cfg.Oracle.RPCURL = os.ExpandEnv(cfg.Oracle.RPCURL)
	cfg.Ledger.File = os.ExpandEnv(cfg.Ledger.File)

	for role, members := range cfg.Roles {
		cfg.Roles[role] = lo.Map(members, func(m string, _ int) string { return os.ExpandEnv(m) })
	}
	cfg.Identity.Agents = lo.Map(cfg.Identity.Agents, func(a string, _ int) string { return os.ExpandEnv(a) })
}

// resolve converts the file config into runtime settings, applying defaults
func resolve(file *config.DloopFileConfig, cfg *config.RuntimeConfig) error {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	// [governance]
	g := file.Governance
	cfg.Governance = config.GovernanceConfig{
		QuorumBp:            lo.FromPtrOr(g.QuorumBp, DefaultQuorumBp),
		EarlyFinalization:   g.EarlyFinalization,
		RestrictedExecution: g.RestrictedExecution,
		InvestFeeBp:         lo.FromPtrOr(g.InvestFeeBp, DefaultInvestFeeBp),
		DivestFeeBp:         lo.FromPtrOr(g.DivestFeeBp, DefaultDivestFeeBp),
		FundingToken:        models.TokenKind(strings.ToUpper(lo.CoalesceOrEmpty(g.FundingToken, DefaultFundingToken))),
	}
	collect(domain.ValidateBp("governance.quorum_bp", cfg.Governance.QuorumBp))
	collect(domain.ValidateBp("governance.invest_fee_bp", cfg.Governance.InvestFeeBp))
	collect(domain.ValidateBp("governance.divest_fee_bp", cfg.Governance.DivestFeeBp))

	var err error
	cfg.Governance.VotingPeriod, err = durationOr("governance.voting_period", g.VotingPeriod, DefaultVotingPeriod)
	collect(err)
	if err == nil && cfg.Governance.VotingPeriod <= 0 {
		collect(fmt.Errorf("governance.voting_period must be positive"))
	}
	cfg.Governance.EvaluationWindow, err = durationOr("governance.evaluation_window", g.EvaluationWindow, DefaultEvaluationWindow)
	collect(err)
	cfg.Governance.Treasury, err = optionalAddress("governance.treasury", g.Treasury)
	collect(err)
	cfg.Governance.FeeCollector, err = optionalAddress("governance.fee_collector", g.FeeCollector)
	collect(err)

	// [reward]
	r := file.Reward
	cfg.Reward.Mint = r.Mint
	cfg.Reward.Pool, err = optionalAddress("reward.pool", r.Pool)
	collect(err)

	defaults := models.RewardConfig{
		ParticipationBonusThresholdBp: lo.FromPtrOr(r.ParticipationBonusThresholdBp, DefaultParticipationBonusThresholdBp),
		ParticipationBonusRateBp:      lo.FromPtrOr(r.ParticipationBonusRateBp, DefaultParticipationBonusRateBp),
		QualityMultiplierThresholdBp:  lo.FromPtrOr(r.QualityMultiplierThresholdBp, DefaultQualityMultiplierThresholdBp),
		QualityMultiplierRateBp:       lo.FromPtrOr(r.QualityMultiplierRateBp, DefaultQualityMultiplierRateBp),
		AINodeMultiplierRateBp:        lo.FromPtrOr(r.AINodeMultiplierRateBp, DefaultAINodeMultiplierRateBp),
	}
	defaults.BaseReward, err = tokenAmount("reward.base_reward", lo.CoalesceOrEmpty(r.BaseReward, DefaultBaseReward))
	collect(err)
	defaults.RewardCap, err = tokenAmount("reward.reward_cap", lo.CoalesceOrEmpty(r.RewardCap, DefaultRewardCap))
	collect(err)
	defaults.Cooldown, err = durationOr("reward.cooldown", r.Cooldown, DefaultRewardCooldown)
	collect(err)
	if defaults.BaseReward != nil && defaults.RewardCap != nil {
		collect(domain.ValidateRewardConfig(&defaults))
	}
	cfg.Reward.Defaults = defaults

	// [oracle]
	o := file.Oracle
	cfg.Oracle.RPCURL = o.RPCURL
	cfg.Oracle.RPCRateLimit = o.RPCRateLimit
	if o.RPCRateLimit < 0 {
		collect(fmt.Errorf("oracle.rpc_rate_limit must not be negative"))
	}
	cfg.Oracle.FallbackMaxAge, err = durationOr("oracle.fallback_max_age", o.FallbackMaxAge, 0)
	collect(err)
	cfg.Oracle.RPCTimeout, err = durationOr("oracle.rpc_timeout", o.RPCTimeout, DefaultRPCTimeout)
	collect(err)

	// [roles]
	known := lo.Map(domain.AllRoles(), func(r domain.Role, _ int) string { return string(r) })
	cfg.Roles = make(map[string][]common.Address, len(file.Roles))
	for role, members := range file.Roles {
		if !lo.Contains(known, role) {
			collect(fmt.Errorf("roles.%s: unknown role (valid: %s)", role, strings.Join(known, ", ")))
			continue
		}
		for i, m := range members {
			addr, err := parseAddress(fmt.Sprintf("roles.%s[%d]", role, i), m)
			if err != nil {
				collect(err)
				continue
			}
			cfg.Roles[role] = append(cfg.Roles[role], addr)
		}
	}

	// [identity]
	for i, a := range file.Identity.Agents {
		addr, err := parseAddress(fmt.Sprintf("identity.agents[%d]", i), a)
		if err != nil {
			collect(err)
			continue
		}
		cfg.Agents = append(cfg.Agents, addr)
	}

	// [ledger]
	cfg.LedgerFile = file.Ledger.File

	return errors.Join(errs...)
}

// durationOr parses s, returning def when s is empty
func durationOr(field, s string, def time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	d, err := ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

// ParseDuration parses a non-negative duration. A trailing "d" is accepted
// for whole days.
func ParseDuration(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

func optionalAddress(field, s string) (common.Address, error) {
	if strings.TrimSpace(s) == "" {
		return common.Address{}, nil
	}
	return parseAddress(field, s)
}

// tokenAmount parses a whole-token decimal such as "12.5" into base units
func tokenAmount(field, s string) (*big.Int, error) {
	v, err := domain.ParseDecimal(strings.TrimSpace(s), domain.CanonicalDecimals)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}
