package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"gopkg.in/yaml.v3"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out  io.Writer
	json bool
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer, json bool) *ConfigRenderer {
	return &ConfigRenderer{out: out, json: json}
}

type governanceView struct {
	QuorumBp            uint64 `yaml:"quorum_bp" json:"quorumBp"`
	VotingPeriod        string `yaml:"voting_period" json:"votingPeriod"`
	EvaluationWindow    string `yaml:"evaluation_window" json:"evaluationWindow"`
	EarlyFinalization   bool   `yaml:"early_finalization" json:"earlyFinalization"`
	RestrictedExecution bool   `yaml:"restricted_execution" json:"restrictedExecution"`
	Treasury            string `yaml:"treasury" json:"treasury"`
	FeeCollector        string `yaml:"fee_collector" json:"feeCollector"`
	InvestFeeBp         uint64 `yaml:"invest_fee_bp" json:"investFeeBp"`
	DivestFeeBp         uint64 `yaml:"divest_fee_bp" json:"divestFeeBp"`
	FundingToken        string `yaml:"funding_token" json:"fundingToken"`
}

type rewardView struct {
	BaseReward                    string `yaml:"base_reward" json:"baseReward"`
	ParticipationBonusThresholdBp uint64 `yaml:"participation_bonus_threshold_bp" json:"participationBonusThresholdBp"`
	ParticipationBonusRateBp      uint64 `yaml:"participation_bonus_rate_bp" json:"participationBonusRateBp"`
	QualityMultiplierThresholdBp  uint64 `yaml:"quality_multiplier_threshold_bp" json:"qualityMultiplierThresholdBp"`
	QualityMultiplierRateBp       uint64 `yaml:"quality_multiplier_rate_bp" json:"qualityMultiplierRateBp"`
	AINodeMultiplierRateBp        uint64 `yaml:"ai_node_multiplier_rate_bp" json:"aiNodeMultiplierRateBp"`
	RewardCap                     string `yaml:"reward_cap" json:"rewardCap"`
	Cooldown                      string `yaml:"cooldown" json:"cooldown"`
	UpdatedAt                     string `yaml:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

type configView struct {
	Governance governanceView `yaml:"governance" json:"governance"`
	Reward     rewardView     `yaml:"reward" json:"reward"`
}

func newRewardView(cfg *models.RewardConfig) rewardView {
	v := rewardView{
		BaseReward:                    tokens(cfg.BaseReward),
		ParticipationBonusThresholdBp: cfg.ParticipationBonusThresholdBp,
		ParticipationBonusRateBp:      cfg.ParticipationBonusRateBp,
		QualityMultiplierThresholdBp:  cfg.QualityMultiplierThresholdBp,
		QualityMultiplierRateBp:       cfg.QualityMultiplierRateBp,
		AINodeMultiplierRateBp:        cfg.AINodeMultiplierRateBp,
		RewardCap:                     tokens(cfg.RewardCap),
		Cooldown:                      cfg.Cooldown.String(),
	}
	if cfg.UpdatedAt != nil {
		v.UpdatedAt = timestamp(cfg.UpdatedAt)
	}
	return v
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}

	return relPath
}

// RenderConfig renders the governance parameters and reward config
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	g := result.Governance
	view := configView{
		Governance: governanceView{
			QuorumBp:            g.QuorumBp,
			VotingPeriod:        g.VotingPeriod.String(),
			EvaluationWindow:    g.EvaluationWindow.String(),
			EarlyFinalization:   g.EarlyFinalization,
			RestrictedExecution: g.RestrictedExecution,
			Treasury:            g.Treasury.Hex(),
			FeeCollector:        g.FeeCollector.Hex(),
			InvestFeeBp:         g.InvestFeeBp,
			DivestFeeBp:         g.DivestFeeBp,
			FundingToken:        string(g.FundingToken),
		},
		Reward: newRewardView(result.Reward),
	}
	if r.json {
		return WriteJSON(r.out, view)
	}

	fmt.Fprintln(r.out, "📋 Current config:")
	data, err := yaml.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	fmt.Fprint(r.out, string(data))
	fmt.Fprintln(r.out)

	if result.ConfigSource != "" {
		fmt.Fprintf(r.out, "📦 Config source: %s\n", getRelativePath(result.ConfigSource))
	} else {
		fmt.Fprintln(r.out, "📦 Config source: defaults (no dloop.toml found)")
	}
	if result.Persisted {
		fmt.Fprintln(r.out, "💾 Reward config: persisted by config set-reward")
	} else {
		fmt.Fprintln(r.out, "💾 Reward config: initial values from dloop.toml")
	}
	return nil
}

// RenderRewardUpdate renders a stored reward config
func (r *ConfigRenderer) RenderRewardUpdate(cfg *models.RewardConfig) error {
	view := newRewardView(cfg)
	if r.json {
		return WriteJSON(r.out, view)
	}
	fmt.Fprintln(r.out, FormatSuccess("Reward config updated"))
	data, err := yaml.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	fmt.Fprint(r.out, indent(string(data), "  "))
	return nil
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "")
}
