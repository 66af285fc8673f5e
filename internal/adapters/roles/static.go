package roles

import (
	"context"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// StaticRoles is a role table read from the [roles] section of dloop.toml
type StaticRoles struct {
	members map[domain.Role][]common.Address
}

// NewStaticRoles creates a role table from configuration
func NewStaticRoles(cfg *config.RuntimeConfig) *StaticRoles {
	members := make(map[domain.Role][]common.Address, len(cfg.Roles))
	for name, addrs := range cfg.Roles {
		members[domain.Role(name)] = lo.Uniq(addrs)
	}
	return &StaticRoles{members: members}
}

// HasRole reports whether principal is listed under role. Admin inheritance
// is resolved by the caller.
func (s *StaticRoles) HasRole(_ context.Context, principal common.Address, role domain.Role) (bool, error) {
	return lo.Contains(s.members[role], principal), nil
}

// Ensure StaticRoles implements RoleChecker
var _ usecase.RoleChecker = (*StaticRoles)(nil)
