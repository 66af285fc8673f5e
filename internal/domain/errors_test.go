package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("failed to price proposal 3: %w", fmt.Errorf("%w: stale", ErrPriceUnavailable))

	assert.Equal(t, KindOracle, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindOracle))
	assert.False(t, IsKind(nil, KindOracle))
	assert.Equal(t, KindInternal, KindOf(errors.New("disk full")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("proposal 9: %w", ErrNotFound)))

	err := Unauthorized(common.HexToAddress("0x01"), RoleOracleAdmin)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, KindAuthorization, KindOf(err))
	assert.Contains(t, err.Error(), `"oracle_admin"`)
}
