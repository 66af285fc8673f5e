package render

import (
	"fmt"
	"io"

	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/fatih/color"
)

// RewardsRenderer renders reward distributions
type RewardsRenderer struct {
	out  io.Writer
	json bool
}

// NewRewardsRenderer creates a new rewards renderer
func NewRewardsRenderer(out io.Writer, json bool) *RewardsRenderer {
	return &RewardsRenderer{out: out, json: json}
}

func outcomeStyle(outcome models.Outcome) *color.Color {
	switch outcome {
	case models.OutcomeGoodDecision:
		return goodStyle
	case models.OutcomeBadDecision:
		return badStyle
	default:
		return pendingStyle
	}
}

// Render renders a reward record
func (r *RewardsRenderer) Render(rec *models.RewardRecord) error {
	if r.json {
		return WriteJSON(r.out, rec)
	}

	if rec.Amount.Sign() == 0 {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Recorded %s for %s on proposal #%d with no payout",
			humanize(string(rec.Outcome)), rec.Recipient.Hex(), rec.ProposalID)))
	} else {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Paid %s %s to %s for proposal #%d",
			tokens(rec.Amount), models.TokenReward, rec.Recipient.Hex(), rec.ProposalID)))
	}
	field(r.out, "Outcome", outcomeStyle(rec.Outcome).Sprint(humanize(string(rec.Outcome))))
	field(r.out, "Price", fmt.Sprintf("%s → %s", tokens(rec.StartPrice), tokens(rec.EndPrice)))
	field(r.out, "Record", timestampStyle.Sprint(rec.ID))
	return nil
}

var _ Renderer[*models.RewardRecord] = (*RewardsRenderer)(nil)
