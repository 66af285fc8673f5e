// Package metrics exports governance activity as Prometheus collectors.
package metrics

import (
	"math/big"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dloop"

// Collector implements usecase.Metrics on a private registry
type Collector struct {
	registry *prometheus.Registry

	priceQuotes       *prometheus.CounterVec
	priceFailures     *prometheus.CounterVec
	transitions       *prometheus.CounterVec
	votes             *prometheus.CounterVec
	rewards           *prometheus.CounterVec
	rewardTokensTotal prometheus.Counter
}

// NewCollector creates and registers the governance collectors
func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.priceQuotes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "quotes_total",
			Help:      "Price quotes served, by asset and source (primary, fallback)",
		},
		[]string{"asset", "source"},
	)

	c.priceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "failures_total",
			Help:      "Price queries that could not be answered",
		},
		[]string{"asset", "reason"},
	)

	c.transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "governance",
			Name:      "proposal_transitions_total",
			Help:      "Proposal state transitions, by target state",
		},
		[]string{"state"},
	)

	c.votes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "governance",
			Name:      "votes_total",
			Help:      "Votes cast, by side",
		},
		[]string{"support"},
	)

	c.rewards = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rewards",
			Name:      "distributions_total",
			Help:      "Reward evaluations, by outcome",
		},
		[]string{"outcome"},
	)

	c.rewardTokensTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rewards",
			Name:      "paid_tokens_total",
			Help:      "Reward tokens paid, in whole tokens",
		},
	)

	c.registry.MustRegister(
		c.priceQuotes,
		c.priceFailures,
		c.transitions,
		c.votes,
		c.rewards,
		c.rewardTokensTotal,
	)
	return c
}

// Registry returns the registry holding the collectors
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes the current values in the node-exporter textfile format
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

func (c *Collector) PriceQuoted(asset common.Address, source models.PriceSource) {
	c.priceQuotes.WithLabelValues(asset.Hex(), string(source)).Inc()
}

func (c *Collector) PriceFailed(asset common.Address, reason string) {
	c.priceFailures.WithLabelValues(asset.Hex(), reason).Inc()
}

func (c *Collector) ProposalTransitioned(state models.ProposalState) {
	c.transitions.WithLabelValues(string(state)).Inc()
}

func (c *Collector) VoteCast(support bool) {
	label := "no"
	if support {
		label = "yes"
	}
	c.votes.WithLabelValues(label).Inc()
}

func (c *Collector) RewardDistributed(outcome models.Outcome, amount *big.Int) {
	c.rewards.WithLabelValues(string(outcome)).Inc()
	if amount == nil || amount.Sign() == 0 {
		return
	}
	whole, _ := new(big.Float).Quo(new(big.Float).SetInt(amount), new(big.Float).SetInt(domain.CanonicalUnit())).Float64()
	c.rewardTokensTotal.Add(whole)
}

// Ensure Collector implements Metrics
var _ usecase.Metrics = (*Collector)(nil)
