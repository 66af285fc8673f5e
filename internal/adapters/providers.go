package adapters

import (
	"context"
	"log/slog"
	"os"

	"github.com/dloop-protocol/dloop/internal/adapters/chainlink"
	"github.com/dloop-protocol/dloop/internal/adapters/clock"
	"github.com/dloop-protocol/dloop/internal/adapters/feedsource"
	"github.com/dloop-protocol/dloop/internal/adapters/identity"
	"github.com/dloop-protocol/dloop/internal/adapters/interactive"
	"github.com/dloop-protocol/dloop/internal/adapters/ledger"
	"github.com/dloop-protocol/dloop/internal/adapters/metrics"
	"github.com/dloop-protocol/dloop/internal/adapters/progress"
	"github.com/dloop-protocol/dloop/internal/adapters/repository/state"
	"github.com/dloop-protocol/dloop/internal/adapters/roles"
	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/google/wire"
)

// ProvidePriceSource reads Chainlink aggregators when an RPC endpoint is
// configured and the local round file otherwise. Interactive sessions show
// a spinner during remote reads.
func ProvidePriceSource(cfg *config.RuntimeConfig, local *feedsource.LocalSource, log *slog.Logger) (usecase.PriceSource, func(), error) {
	if cfg.Oracle.RPCURL == "" {
		return local, func() {}, nil
	}
	reader, closeFn, err := chainlink.Dial(context.Background(), cfg, log)
	if err != nil {
		return nil, nil, err
	}
	if cfg.NonInteractive || cfg.JSON {
		return reader, closeFn, nil
	}
	return progress.NewSpinnerSource(reader, os.Stderr), closeFn, nil
}

// StorageSet provides the file-backed governance state store
var StorageSet = wire.NewSet(
	state.NewFileRepository,
	wire.Bind(new(usecase.StateStore), new(*state.FileRepository)),
)

// ExternalSet provides the ledger, identity and role services
var ExternalSet = wire.NewSet(
	ledger.NewFileLedger,
	wire.Bind(new(usecase.Ledger), new(*ledger.FileLedger)),

	identity.NewRegistry,
	wire.Bind(new(usecase.Identity), new(*identity.Registry)),

	roles.NewStaticRoles,
	wire.Bind(new(usecase.RoleChecker), new(*roles.StaticRoles)),

	clock.NewSystem,
	wire.Bind(new(usecase.Clock), new(clock.System)),
)

// OracleSet provides the price sources and the oracle built on them
var OracleSet = wire.NewSet(
	feedsource.NewLocalSource,
	wire.Bind(new(usecase.RoundPublisher), new(*feedsource.LocalSource)),
	ProvidePriceSource,

	usecase.NewAssetPriceOracle,
	wire.Bind(new(usecase.PriceOracle), new(*usecase.AssetPriceOracle)),
)

// MetricsSet provides the Prometheus collector
var MetricsSet = wire.NewSet(
	metrics.NewCollector,
	wire.Bind(new(usecase.Metrics), new(*metrics.Collector)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.AssetSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	StorageSet,
	ExternalSet,
	OracleSet,
	MetricsSet,
	InteractiveSet,
)
