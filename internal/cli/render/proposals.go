package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// ProposalsRenderer renders proposals, votes and execution results
type ProposalsRenderer struct {
	out  io.Writer
	json bool
}

// NewProposalsRenderer creates a new proposals renderer
func NewProposalsRenderer(out io.Writer, json bool) *ProposalsRenderer {
	return &ProposalsRenderer{out: out, json: json}
}

// stateStyle picks the color of a lifecycle state
func stateStyle(state models.ProposalState) *color.Color {
	switch state {
	case models.ProposalStateActive:
		return activeStyle
	case models.ProposalStatePassed, models.ProposalStateExecuted, models.ProposalStateRewardEligible:
		return goodStyle
	case models.ProposalStateRejected, models.ProposalStateExpired:
		return badStyle
	default:
		return pendingStyle
	}
}

// RenderList renders the proposal table and its summary
func (r *ProposalsRenderer) RenderList(result *usecase.ProposalListResult) error {
	if r.json {
		return WriteJSON(r.out, result)
	}
	if len(result.Proposals) == 0 {
		fmt.Fprintln(r.out, "No proposals found")
		return nil
	}

	t := newTable(r.out)
	t.AppendHeader(table.Row{"ID", "KIND", "ASSET", "AMOUNT", "PHASE", "YES", "NO", "DEADLINE"})
	for _, p := range result.Proposals {
		phase := result.Phases[p.ID]
		t.AppendRow(table.Row{
			p.ID,
			string(p.Kind),
			addressStyle.Sprint(p.Asset.Hex()),
			amount(p.Amount),
			stateStyle(phase).Sprint(humanize(string(phase))),
			amount(p.YesWeight),
			amount(p.NoWeight),
			timestampStyle.Sprint(timestamp(&p.Deadline)),
		})
	}
	t.Render()

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "Total: %d\n", result.Summary.Total)
	phases := make([]string, 0, len(result.Summary.ByPhase))
	for phase := range result.Summary.ByPhase {
		phases = append(phases, string(phase))
	}
	sort.Strings(phases)
	for _, phase := range phases {
		fmt.Fprintf(r.out, "  %-18s %d\n", humanize(phase)+":", result.Summary.ByPhase[models.ProposalState(phase)])
	}
	return nil
}

// Render renders a single proposal with its votes and rewards
func (r *ProposalsRenderer) Render(details *usecase.ProposalDetails) error {
	if r.json {
		return WriteJSON(r.out, details)
	}

	p := details.Proposal
	headerStyle.Fprintf(r.out, "Proposal #%d\n", p.ID)
	field(r.out, "Kind", string(p.Kind))
	field(r.out, "Phase", stateStyle(details.Phase).Sprint(humanize(string(details.Phase))))
	asset := p.Asset.Hex()
	if details.Asset != nil {
		asset = fmt.Sprintf("%s (%s)", details.Asset.Symbol, p.Asset.Hex())
	}
	field(r.out, "Asset", asset)
	field(r.out, "Amount", amount(p.Amount))
	field(r.out, "Proposer", addressStyle.Sprint(p.Proposer.Hex()))
	if p.Description != "" {
		field(r.out, "Description", p.Description)
	}
	field(r.out, "Created", timestamp(&p.CreatedAt))
	field(r.out, "Deadline", timestamp(&p.Deadline))
	field(r.out, "Yes", amount(p.YesWeight))
	field(r.out, "No", amount(p.NoWeight))
	field(r.out, "Possible", amount(p.TotalPossibleWeight))
	if p.FinalizedAt != nil {
		field(r.out, "Finalized", timestamp(p.FinalizedAt))
	}
	if p.Executed {
		field(r.out, "Executed", fmt.Sprintf("%s by %s", timestamp(p.ExecutedAt), p.ExecutedBy))
		field(r.out, "Price", fmt.Sprintf("%s (%s)", tokens(p.PriceAtExecution), p.PriceSource))
		field(r.out, "Value", tokens(p.ExecutionValue))
		field(r.out, "Fee", amount(p.FeePaid))
		field(r.out, "Eligible", timestamp(details.EligibleAt))
	}

	if len(details.Votes) > 0 {
		fmt.Fprintln(r.out)
		headerStyle.Fprintln(r.out, "Votes")
		r.renderVotes(details.Votes)
	}
	if len(details.Rewards) > 0 {
		fmt.Fprintln(r.out)
		headerStyle.Fprintln(r.out, "Rewards")
		t := newTable(r.out)
		t.AppendHeader(table.Row{"RECIPIENT", "OUTCOME", "AMOUNT", "DISTRIBUTED"})
		for _, rec := range details.Rewards {
			t.AppendRow(table.Row{
				addressStyle.Sprint(rec.Recipient.Hex()),
				outcomeStyle(rec.Outcome).Sprint(humanize(string(rec.Outcome))),
				tokens(rec.Amount),
				timestampStyle.Sprint(timestamp(&rec.DistributedAt)),
			})
		}
		t.Render()
	}
	return nil
}

// RenderVotes renders the votes on a proposal
func (r *ProposalsRenderer) RenderVotes(votes []*models.Vote) error {
	if r.json {
		return WriteJSON(r.out, votes)
	}
	if len(votes) == 0 {
		fmt.Fprintln(r.out, "No votes cast")
		return nil
	}
	r.renderVotes(votes)
	return nil
}

func (r *ProposalsRenderer) renderVotes(votes []*models.Vote) {
	t := newTable(r.out)
	t.AppendHeader(table.Row{"VOTER", "SUPPORT", "WEIGHT", "CAST"})
	for _, v := range votes {
		support := badStyle.Sprint("no")
		if v.Support {
			support = goodStyle.Sprint("yes")
		}
		t.AppendRow(table.Row{
			addressStyle.Sprint(v.Voter.Hex()),
			support,
			amount(v.Weight),
			timestampStyle.Sprint(timestamp(&v.CastAt)),
		})
	}
	t.Render()
}

// RenderSubmitted renders a newly submitted proposal
func (r *ProposalsRenderer) RenderSubmitted(p *models.Proposal) error {
	if r.json {
		return WriteJSON(r.out, p)
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Submitted proposal #%d (%s %s)", p.ID, p.Kind, amount(p.Amount))))
	fmt.Fprintf(r.out, "Voting closes %s\n", timestamp(&p.Deadline))
	return nil
}

// RenderVote renders a cast vote and the updated tallies
func (r *ProposalsRenderer) RenderVote(result *usecase.CastVoteResult) error {
	if r.json {
		return WriteJSON(r.out, result)
	}
	side := "against"
	if result.Vote.Support {
		side = "in favor of"
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Voted %s proposal #%d with weight %s",
		side, result.Vote.ProposalID, amount(result.Vote.Weight))))
	fmt.Fprintf(r.out, "Tally: yes %s / no %s of %s\n",
		amount(result.Proposal.YesWeight), amount(result.Proposal.NoWeight), amount(result.Proposal.TotalPossibleWeight))
	return nil
}

// RenderFinalized renders the outcome of finalization
func (r *ProposalsRenderer) RenderFinalized(p *models.Proposal) error {
	if r.json {
		return WriteJSON(r.out, p)
	}
	msg := fmt.Sprintf("Proposal #%d %s", p.ID, p.State)
	if p.State == models.ProposalStatePassed {
		fmt.Fprintln(r.out, FormatSuccess(msg))
	} else {
		fmt.Fprintln(r.out, FormatWarning(msg))
	}
	return nil
}

// RenderExecuted renders the executed proposal and its transfers
func (r *ProposalsRenderer) RenderExecuted(result *usecase.ExecuteProposalResult) error {
	if r.json {
		return WriteJSON(r.out, result)
	}
	p := result.Proposal
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Executed proposal #%d at price %s (%s)",
		p.ID, tokens(p.PriceAtExecution), p.PriceSource)))
	for _, tr := range result.Transfers {
		fmt.Fprintf(r.out, "  %s %s → %s  %s\n",
			amount(tr.Amount), tr.Token, addressStyle.Sprint(tr.To.Hex()), timestampStyle.Sprint("from "+tr.From.Hex()))
	}
	if result.EligibleAt != nil {
		fmt.Fprintf(r.out, "Reward eligible from %s\n", timestamp(result.EligibleAt))
	}
	return nil
}

var _ Renderer[*usecase.ProposalDetails] = (*ProposalsRenderer)(nil)
