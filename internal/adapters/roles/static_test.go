package roles_test

import (
	"context"
	"testing"

	"github.com/dloop-protocol/dloop/internal/adapters/roles"
	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticRoles(t *testing.T) {
	ctx := context.Background()
	admin := common.HexToAddress("0x0000000000000000000000000000000000000001")
	oracle := common.HexToAddress("0x0000000000000000000000000000000000000002")

	r := roles.NewStaticRoles(&config.RuntimeConfig{Roles: map[string][]common.Address{
		"admin":        {admin},
		"oracle_admin": {oracle, oracle},
	}})

	tests := []struct {
		name      string
		principal common.Address
		role      domain.Role
		want      bool
	}{
		{"listed admin", admin, domain.RoleAdmin, true},
		{"listed oracle admin", oracle, domain.RoleOracleAdmin, true},
		{"admin is not listed as oracle admin", admin, domain.RoleOracleAdmin, false},
		{"unknown role", oracle, domain.RoleExecutor, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.HasRole(ctx, tt.principal, tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
