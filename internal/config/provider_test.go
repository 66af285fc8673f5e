package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0644))
}

func newViper(root string) *viper.Viper {
	v := viper.New()
	v.Set("project_root", root)
	return v
}

func TestProvider(t *testing.T) {
	t.Run("defaults without dloop.toml", func(t *testing.T) {
		root := t.TempDir()
		cfg, err := Provider(newViper(root))
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(root, DefaultDataDir), cfg.DataDir)
		assert.Empty(t, cfg.ConfigSource)
		assert.Equal(t, uint64(DefaultQuorumBp), cfg.Governance.QuorumBp)
		assert.Equal(t, DefaultVotingPeriod, cfg.Governance.VotingPeriod)
		assert.Equal(t, DefaultEvaluationWindow, cfg.Governance.EvaluationWindow)
		assert.Equal(t, "USDC", string(cfg.Governance.FundingToken))

		hundred := new(big.Int).Mul(big.NewInt(100), domain.CanonicalUnit())
		assert.Equal(t, 0, cfg.Reward.Defaults.BaseReward.Cmp(hundred))
		assert.Equal(t, DefaultRewardCooldown, cfg.Reward.Defaults.Cooldown)
	})

	t.Run("full file with env expansion", func(t *testing.T) {
		root := t.TempDir()
		t.Setenv("DLOOP_TEST_TREASURY", "0x00000000000000000000000000000000000000aa")
		writeConfig(t, root, `
[governance]
quorum_bp = 4000
voting_period = "2d"
evaluation_window = "36h"
early_finalization = true
treasury = "${DLOOP_TEST_TREASURY}"
fee_collector = "0x00000000000000000000000000000000000000fe"
invest_fee_bp = 25
funding_token = "usdc"

[reward]
pool = "0x00000000000000000000000000000000000000bb"
base_reward = "12.5"
reward_cap = "50"
cooldown = "1h"
quality_multiplier_rate_bp = 15000

[oracle]
rpc_url = "http://localhost:8545"
fallback_max_age = "6h"
rpc_rate_limit = 5

[roles]
admin = ["0x0000000000000000000000000000000000000001"]
oracle_admin = ["0x0000000000000000000000000000000000000002"]

[identity]
agents = ["0x00000000000000000000000000000000000000c1"]

[ledger]
file = "var/ledger.json"
`)

		cfg, err := Provider(newViper(root))
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(root, ConfigFile), cfg.ConfigSource)
		assert.Equal(t, uint64(4000), cfg.Governance.QuorumBp)
		assert.Equal(t, 48*time.Hour, cfg.Governance.VotingPeriod)
		assert.Equal(t, 36*time.Hour, cfg.Governance.EvaluationWindow)
		assert.True(t, cfg.Governance.EarlyFinalization)
		assert.Equal(t, common.HexToAddress("0xaa"), cfg.Governance.Treasury)
		assert.Equal(t, uint64(25), cfg.Governance.InvestFeeBp)
		assert.Equal(t, uint64(DefaultDivestFeeBp), cfg.Governance.DivestFeeBp)
		assert.Equal(t, "USDC", string(cfg.Governance.FundingToken))

		assert.Equal(t, common.HexToAddress("0xbb"), cfg.Reward.Pool)
		want, _ := new(big.Int).SetString("12500000000000000000", 10)
		assert.Equal(t, 0, cfg.Reward.Defaults.BaseReward.Cmp(want))
		assert.Equal(t, uint64(15000), cfg.Reward.Defaults.QualityMultiplierRateBp)
		assert.Equal(t, time.Hour, cfg.Reward.Defaults.Cooldown)

		assert.Equal(t, "http://localhost:8545", cfg.Oracle.RPCURL)
		assert.Equal(t, 6*time.Hour, cfg.Oracle.FallbackMaxAge)
		assert.Equal(t, 5.0, cfg.Oracle.RPCRateLimit)
		assert.Equal(t, DefaultRPCTimeout, cfg.Oracle.RPCTimeout)

		assert.Equal(t, []common.Address{common.HexToAddress("0x01")}, cfg.Roles["admin"])
		assert.Equal(t, []common.Address{common.HexToAddress("0xc1")}, cfg.Agents)
		assert.Equal(t, filepath.Join(root, "var", "ledger.json"), cfg.LedgerFile)
	})

	t.Run("flag overrides", func(t *testing.T) {
		root := t.TempDir()
		v := newViper(root)
		v.Set("as", "0x0000000000000000000000000000000000000009")
		v.Set("rpc_url", "http://rpc.example")
		v.Set("data_dir", "/var/lib/dloop")

		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0x09"), cfg.Caller)
		assert.Equal(t, "http://rpc.example", cfg.Oracle.RPCURL)
		assert.Equal(t, "/var/lib/dloop", cfg.DataDir)
	})

	t.Run("invalid caller", func(t *testing.T) {
		v := newViper(t.TempDir())
		v.Set("as", "alice")
		_, err := Provider(v)
		assert.ErrorContains(t, err, "not a hex address")
	})
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"quorum out of range", "[governance]\nquorum_bp = 12000\n", "governance.quorum_bp"},
		{"bad duration", "[governance]\nvoting_period = \"soon\"\n", "governance.voting_period"},
		{"zero voting period", "[governance]\nvoting_period = \"0s\"\n", "voting_period must be positive"},
		{"bad treasury", "[governance]\ntreasury = \"treasury\"\n", "governance.treasury"},
		{"unknown role", "[roles]\nowner = [\"0x0000000000000000000000000000000000000001\"]\n", "unknown role"},
		{"zero multiplier", "[reward]\nai_node_multiplier_rate_bp = 0\n", "ai_node_multiplier_rate_bp"},
		{"unknown key", "[governance]\nquorum = 1\n", "unknown keys"},
		{"bad reward amount", "[reward]\nbase_reward = \"lots\"\n", "reward.base_reward"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeConfig(t, root, tt.content)

			_, err := Provider(newViper(root))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDurationOr(t *testing.T) {
	d, err := durationOr("x", "", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	d, err = durationOr("x", "7d", 0)
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, d)

	_, err = durationOr("x", "-1h", 0)
	assert.Error(t, err)
}
