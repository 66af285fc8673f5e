package models

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// PriceSource tells where a quoted price came from
type PriceSource string

const (
	PriceSourcePrimary  PriceSource = "primary"
	PriceSourceFallback PriceSource = "fallback"
)

// PriceFeed is the oracle registration of an asset
type PriceFeed struct {
	Asset common.Address `json:"asset"`

	// Primary source; the zero address means no source is registered
	Source             common.Address `json:"source"`
	Decimals           uint8          `json:"decimals"`
	StalenessThreshold time.Duration  `json:"stalenessThreshold"`

	// Metadata only
	Heartbeat     time.Duration `json:"heartbeat"`
	ReliabilityBp uint64        `json:"reliabilityBp"`

	// Administrator-set fallback, canonical precision
	FallbackPrice *big.Int   `json:"fallbackPrice,omitempty"`
	FallbackSetAt *time.Time `json:"fallbackSetAt,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// HasSource reports whether a primary source is registered
func (f *PriceFeed) HasSource() bool {
	return f.Source != (common.Address{})
}

// HasFallback reports whether a fallback price is registered
func (f *PriceFeed) HasFallback() bool {
	return f.FallbackPrice != nil && f.FallbackPrice.Sign() > 0
}

// Clone returns a deep copy
func (f *PriceFeed) Clone() *PriceFeed {
	c := *f
	c.FallbackPrice = cloneInt(f.FallbackPrice)
	c.FallbackSetAt = cloneTime(f.FallbackSetAt)
	return &c
}

// PriceQuote is a normalized price answer
type PriceQuote struct {
	Asset      common.Address `json:"asset"`
	Price      *big.Int       `json:"price"`
	Source     PriceSource    `json:"source"`
	ObservedAt time.Time      `json:"observedAt"`
}

// Round is a raw reading from a primary price source
type Round struct {
	RoundID   *big.Int  `json:"roundId"`
	Answer    *big.Int  `json:"answer"`
	Decimals  uint8     `json:"decimals"`
	UpdatedAt time.Time `json:"updatedAt"`
}
