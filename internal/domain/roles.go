package domain

// Role names an administrative capability checked through the role service
type Role string

const (
	RoleAdmin             Role = "admin"
	RoleOracleAdmin       Role = "oracle_admin"
	RoleRewardDistributor Role = "reward_distributor"
	RoleExecutor          Role = "executor"
)

// AllRoles lists every role known to the protocol
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleOracleAdmin, RoleRewardDistributor, RoleExecutor}
}
