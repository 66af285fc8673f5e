package render

import (
	"fmt"
	"io"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
)

// OracleRenderer renders price quotes and feed registrations
type OracleRenderer struct {
	out  io.Writer
	json bool
}

// NewOracleRenderer creates a new oracle renderer
func NewOracleRenderer(out io.Writer, json bool) *OracleRenderer {
	return &OracleRenderer{out: out, json: json}
}

// RenderQuote renders a price quote
func (r *OracleRenderer) RenderQuote(quote *models.PriceQuote) error {
	if r.json {
		return WriteJSON(r.out, quote)
	}
	source := goodStyle.Sprint(quote.Source)
	if quote.Source == models.PriceSourceFallback {
		source = pendingStyle.Sprint(quote.Source)
	}
	field(r.out, "Asset", addressStyle.Sprint(quote.Asset.Hex()))
	field(r.out, "Price", tokens(quote.Price))
	field(r.out, "Source", source)
	field(r.out, "Observed", timestampStyle.Sprint(timestamp(&quote.ObservedAt)))
	return nil
}

// RenderFeed renders a single registration after a change
func (r *OracleRenderer) RenderFeed(msg string, feed *models.PriceFeed) error {
	if r.json {
		return WriteJSON(r.out, feed)
	}
	fmt.Fprintln(r.out, FormatSuccess(msg))
	if feed == nil {
		return nil
	}
	if feed.HasSource() {
		field(r.out, "Source", fmt.Sprintf("%s (%d decimals)", feed.Source.Hex(), feed.Decimals))
		field(r.out, "Staleness", feed.StalenessThreshold.String())
	}
	if feed.HasFallback() {
		field(r.out, "Fallback", fmt.Sprintf("%s set %s", tokens(feed.FallbackPrice), timestamp(feed.FallbackSetAt)))
	}
	return nil
}

// RenderRemoved renders the result of removing a primary source
func (r *OracleRenderer) RenderRemoved(result *usecase.RemoveFeedResult) error {
	if r.json {
		return WriteJSON(r.out, result)
	}
	if result.Remaining == nil {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Removed feed for %s", result.Asset.Hex())))
		return nil
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Removed primary source for %s", result.Asset.Hex())))
	fmt.Fprintf(r.out, "Fallback price %s remains registered\n", tokens(result.Remaining.FallbackPrice))
	return nil
}

// RenderRound renders a published round
func (r *OracleRenderer) RenderRound(source fmt.Stringer, round *models.Round) error {
	if r.json {
		return WriteJSON(r.out, round)
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Published round %s on %s", round.RoundID, source)))
	field(r.out, "Answer", domain.FormatDecimal(round.Answer, round.Decimals))
	field(r.out, "Updated", timestamp(&round.UpdatedAt))
	return nil
}

// RenderFeeds renders every registration
func (r *OracleRenderer) RenderFeeds(result *usecase.FeedListResult) error {
	if r.json {
		return WriteJSON(r.out, result.Feeds)
	}
	if len(result.Feeds) == 0 {
		fmt.Fprintln(r.out, "No price feeds registered")
		return nil
	}

	t := newTable(r.out)
	t.AppendHeader(table.Row{"ASSET", "SOURCE", "DECIMALS", "STALENESS", "HEARTBEAT", "RELIABILITY", "FALLBACK"})
	for _, f := range result.Feeds {
		source, decimals, staleness := "-", "-", "-"
		if f.HasSource() {
			source = addressStyle.Sprint(f.Source.Hex())
			decimals = fmt.Sprint(f.Decimals)
			staleness = f.StalenessThreshold.String()
		}
		fallback := "-"
		if f.HasFallback() {
			fallback = tokens(f.FallbackPrice)
		}
		t.AppendRow(table.Row{
			f.Asset.Hex(),
			source,
			decimals,
			staleness,
			f.Heartbeat.String(),
			fmt.Sprintf("%d bp", f.ReliabilityBp),
			fallback,
		})
	}
	t.Render()
	return nil
}
