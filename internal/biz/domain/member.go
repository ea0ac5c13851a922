package domain

// EveryoneRole is the implicit guild-wide role, never a valid grant target
const EveryoneRole = "@everyone"

// Member represents a guild member (value object)
type Member struct {
	UserID   string
	Username string
}

// Role represents a guild role (value object)
type Role struct {
	ID   string
	Name string
}

// ValidRoleNames returns the grantable role names of a roster, excluding the
// implicit everyone role.
func ValidRoleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		if r.Name == EveryoneRole {
			continue
		}
		names = append(names, r.Name)
	}
	return names
}

// FindRole resolves a role by exact name, excluding the everyone role
func FindRole(roles []Role, name string) (Role, bool) {
	for _, r := range roles {
		if r.Name == EveryoneRole {
			continue
		}
		if r.Name == name {
			return r, true
		}
	}
	return Role{}, false
}
