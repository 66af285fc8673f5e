package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"sync"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
)

// balances is the on-disk layout: token -> holder -> amount
type balances map[models.TokenKind]map[common.Address]*big.Int

func (b balances) of(token models.TokenKind, holder common.Address) *big.Int {
	if v, ok := b[token][holder]; ok && v != nil {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

func (b balances) set(token models.TokenKind, holder common.Address, v *big.Int) {
	if b[token] == nil {
		b[token] = make(map[common.Address]*big.Int)
	}
	if v.Sign() == 0 {
		delete(b[token], holder)
		return
	}
	b[token][holder] = v
}

// FileLedger is a json-file token ledger for local networks. Production
// deployments replace it with the protocol's on-chain ledger.
type FileLedger struct {
	path string
	log  *slog.Logger
	mu   sync.Mutex
}

// NewFileLedger creates a ledger at the configured path
func NewFileLedger(cfg *config.RuntimeConfig, log *slog.Logger) *FileLedger {
	path := cfg.LedgerFile
	if path == "" {
		path = filepath.Join(cfg.DataDir, "ledger.json")
	}
	return &FileLedger{path: path, log: log}
}

// BalanceOf returns the holder's balance of token
func (l *FileLedger) BalanceOf(_ context.Context, principal common.Address, token models.TokenKind) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, err := l.load()
	if err != nil {
		return nil, err
	}
	return b.of(token, principal), nil
}

// Transfer moves amount of token between holders
func (l *FileLedger) Transfer(_ context.Context, from, to common.Address, amount *big.Int, token models.TokenKind) error {
	if amount.Sign() <= 0 {
		return domain.ErrZeroAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, err := l.load()
	if err != nil {
		return err
	}
	have := b.of(token, from)
	if have.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s holds %s %s, needs %s", domain.ErrInsufficientBalance,
			from.Hex(), have.String(), token, amount.String())
	}
	b.set(token, from, have.Sub(have, amount))
	b.set(token, to, new(big.Int).Add(b.of(token, to), amount))
	if err := l.save(b); err != nil {
		return err
	}

	l.log.Debug("ledger transfer", "token", token, "from", from.Hex(), "to", to.Hex(), "amount", amount.String())
	return nil
}

// Mint credits newly issued token to a holder
func (l *FileLedger) Mint(_ context.Context, to common.Address, amount *big.Int, token models.TokenKind) error {
	if amount.Sign() <= 0 {
		return domain.ErrZeroAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, err := l.load()
	if err != nil {
		return err
	}
	b.set(token, to, new(big.Int).Add(b.of(token, to), amount))
	if err := l.save(b); err != nil {
		return err
	}

	l.log.Debug("ledger mint", "token", token, "to", to.Hex(), "amount", amount.String())
	return nil
}

// Burn destroys token held by a holder
func (l *FileLedger) Burn(_ context.Context, from common.Address, amount *big.Int, token models.TokenKind) error {
	if amount.Sign() <= 0 {
		return domain.ErrZeroAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, err := l.load()
	if err != nil {
		return err
	}
	have := b.of(token, from)
	if have.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s holds %s %s, burning %s", domain.ErrInsufficientBalance,
			from.Hex(), have.String(), token, amount.String())
	}
	b.set(token, from, have.Sub(have, amount))
	if err := l.save(b); err != nil {
		return err
	}

	l.log.Debug("ledger burn", "token", token, "from", from.Hex(), "amount", amount.String())
	return nil
}

func (l *FileLedger) load() (balances, error) {
	b := make(balances)
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return b, nil
		}
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse ledger file: %w", err)
	}
	return b, nil
}

func (l *FileLedger) save(b balances) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	return os.Rename(tmpPath, l.path)
}

// Ensure FileLedger implements Ledger
var _ usecase.Ledger = (*FileLedger)(nil)
