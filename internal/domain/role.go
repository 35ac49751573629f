package domain

// Role 用户角色（对应 users.role 列）
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleLab     Role = "lab"
	RoleManager Role = "manager"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLab, RoleManager:
		return true
	}
	return false
}

// ParseRole converts a raw string into a Role.
func ParseRole(raw string) (Role, error) {
	r := Role(raw)
	if !r.Valid() {
		return "", Validationf("unknown role %q", raw)
	}
	return r, nil
}

// CanRegisterSamples 注册样本：lab 采集端或 admin
func (r Role) CanRegisterSamples() bool {
	return r == RoleLab || r == RoleAdmin
}

// CanTransitionSamples 状态流转：manager 或 admin
func (r Role) CanTransitionSamples() bool {
	return r == RoleManager || r == RoleAdmin
}

// CanManageAccounts 账号管理：仅 admin
func (r Role) CanManageAccounts() bool {
	return r == RoleAdmin
}
