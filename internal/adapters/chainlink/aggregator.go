package chainlink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// AggregatorV3ABI is the read surface of a Chainlink AggregatorV3Interface
const AggregatorV3ABI = `[
	{"inputs":[],"name":"decimals","outputs":[{"internalType":"uint8","name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"latestRoundData","outputs":[
		{"internalType":"uint80","name":"roundId","type":"uint80"},
		{"internalType":"int256","name":"answer","type":"int256"},
		{"internalType":"uint256","name":"startedAt","type":"uint256"},
		{"internalType":"uint256","name":"updatedAt","type":"uint256"},
		{"internalType":"uint80","name":"answeredInRound","type":"uint80"}
	],"stateMutability":"view","type":"function"}
]`

// ContractCaller is the subset of ethclient.Client used to read feeds
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Options tune the feed reader
type Options struct {
	// Timeout bounds a single round read, zero disables it
	Timeout time.Duration
	// RateLimit is the RPC request budget per second, zero disables pacing
	RateLimit float64
}

// AggregatorReader reads latest rounds from AggregatorV3 contracts. Each
// source has its own circuit breaker; they share one request limiter.
type AggregatorReader struct {
	caller  ContractCaller
	abi     abi.ABI
	limiter *rate.Limiter
	timeout time.Duration
	log     *slog.Logger

	mu       sync.Mutex
	breakers map[common.Address]*gobreaker.CircuitBreaker
	decimals map[common.Address]uint8
}

// NewAggregatorReader creates a reader over caller
func NewAggregatorReader(caller ContractCaller, opts Options, log *slog.Logger) (*AggregatorReader, error) {
	parsed, err := abi.JSON(strings.NewReader(AggregatorV3ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse aggregator ABI: %w", err)
	}

	r := &AggregatorReader{
		caller:   caller,
		abi:      parsed,
		timeout:  opts.Timeout,
		log:      log,
		breakers: make(map[common.Address]*gobreaker.CircuitBreaker),
		decimals: make(map[common.Address]uint8),
	}
	if opts.RateLimit > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return r, nil
}

// breaker returns or creates the circuit breaker for source
func (r *AggregatorReader) breaker(source common.Address) *gobreaker.CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.breakers[source]; ok {
		return b
	}

	st := gobreaker.Settings{Name: source.Hex()}
	st.Interval = 60 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 3
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		r.log.Warn("price feed breaker changed state", "source", name, "from", from.String(), "to", to.String())
	}
	b := gobreaker.NewCircuitBreaker(st)
	r.breakers[source] = b
	return b
}

// LatestRound reads the latest round of the aggregator at source
func (r *AggregatorReader) LatestRound(ctx context.Context, source common.Address) (*models.Round, error) {
	out, err := r.breaker(source).Execute(func() (interface{}, error) {
		return r.readRound(ctx, source)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("feed %s unavailable: %w", source.Hex(), err)
	}
	if err != nil {
		return nil, err
	}
	return out.(*models.Round), nil
}

func (r *AggregatorReader) readRound(ctx context.Context, source common.Address) (*models.Round, error) {
	decimals, err := r.feedDecimals(ctx, source)
	if err != nil {
		return nil, err
	}

	values, err := r.call(ctx, source, "latestRoundData")
	if err != nil {
		return nil, err
	}
	if len(values) != 5 {
		return nil, fmt.Errorf("latestRoundData returned %d values", len(values))
	}

	roundID, ok1 := values[0].(*big.Int)
	answer, ok2 := values[1].(*big.Int)
	updatedAt, ok3 := values[3].(*big.Int)
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("unexpected latestRoundData types from %s", source.Hex())
	}
	if !updatedAt.IsInt64() {
		return nil, fmt.Errorf("updatedAt %s out of range", updatedAt.String())
	}

	return &models.Round{
		RoundID:   roundID,
		Answer:    answer,
		Decimals:  decimals,
		UpdatedAt: time.Unix(updatedAt.Int64(), 0).UTC(),
	}, nil
}

// feedDecimals returns the source precision, cached after the first read
func (r *AggregatorReader) feedDecimals(ctx context.Context, source common.Address) (uint8, error) {
	r.mu.Lock()
	d, ok := r.decimals[source]
	r.mu.Unlock()
	if ok {
		return d, nil
	}

	values, err := r.call(ctx, source, "decimals")
	if err != nil {
		return 0, err
	}
	if len(values) != 1 {
		return 0, fmt.Errorf("decimals returned %d values", len(values))
	}
	d, ok = values[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals type %T from %s", values[0], source.Hex())
	}

	r.mu.Lock()
	r.decimals[source] = d
	r.mu.Unlock()
	return d, nil
}

// call packs, sends and unpacks a view call
func (r *AggregatorReader) call(ctx context.Context, source common.Address, method string) ([]interface{}, error) {
	data, err := r.abi.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	out, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &source, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call to %s failed: %w", method, source.Hex(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no contract code at %s", source.Hex())
	}

	values, err := r.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", method, err)
	}
	return values, nil
}

// Ensure AggregatorReader implements PriceSource
var _ usecase.PriceSource = (*AggregatorReader)(nil)
