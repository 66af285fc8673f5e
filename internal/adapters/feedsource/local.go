package feedsource

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sync"

	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
)

// RoundsFile holds the published rounds of every local source
const RoundsFile = "rounds.json"

// LocalSource is a price source backed by a json file. Operators publish
// rounds with `dloop oracle push-round`; reads return the newest round.
type LocalSource struct {
	path string
	mu   sync.Mutex
}

// NewLocalSource creates a local source in the configured data directory
func NewLocalSource(cfg *config.RuntimeConfig) *LocalSource {
	return &LocalSource{path: filepath.Join(cfg.DataDir, "feeds", RoundsFile)}
}

// LatestRound returns the newest round published for source
func (s *LocalSource) LatestRound(_ context.Context, source common.Address) (*models.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rounds, err := s.load()
	if err != nil {
		return nil, err
	}
	history := rounds[source]
	if len(history) == 0 {
		return nil, fmt.Errorf("no rounds published for source %s", source.Hex())
	}
	latest := *history[len(history)-1]
	return &latest, nil
}

// PublishRound appends round to the history of source and assigns its id
func (s *LocalSource) PublishRound(_ context.Context, source common.Address, round *models.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rounds, err := s.load()
	if err != nil {
		return err
	}
	round.RoundID = big.NewInt(int64(len(rounds[source]) + 1))
	stored := *round
	rounds[source] = append(rounds[source], &stored)
	return s.save(rounds)
}

func (s *LocalSource) load() (map[common.Address][]*models.Round, error) {
	rounds := make(map[common.Address][]*models.Round)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return rounds, nil
		}
		return nil, fmt.Errorf("failed to read rounds file: %w", err)
	}
	if err := json.Unmarshal(data, &rounds); err != nil {
		return nil, fmt.Errorf("failed to parse rounds file: %w", err)
	}
	return rounds, nil
}

func (s *LocalSource) save(rounds map[common.Address][]*models.Round) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create feeds directory: %w", err)
	}

	data, err := json.MarshalIndent(rounds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rounds: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write rounds file: %w", err)
	}
	return os.Rename(tmpPath, s.path)
}

// Ensure LocalSource implements the source and publisher ports
var (
	_ usecase.PriceSource    = (*LocalSource)(nil)
	_ usecase.RoundPublisher = (*LocalSource)(nil)
)
