package domain

import "time"

// Role is the closed set of authorization roles. Anything that does not parse
// to one of the three known roles is RoleUnknown and is denied everywhere.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
	RoleUnknown    Role = ""
)

// ParseRole maps a raw role string to a Role, failing closed on unknown input.
func ParseRole(s string) Role {
	switch s {
	case string(RoleUser):
		return RoleUser
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleSuperadmin):
		return RoleSuperadmin
	default:
		return RoleUnknown
	}
}

// Account is a registered profile with an assigned role. The role stored here
// is the source of truth for authorization; the credential entry in the
// directory never carries one.
type Account struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the directory's view of a login: who can authenticate, not what
// they may do.
type Identity struct {
	UID          string    `json:"uid"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Provider     string    `json:"provider"`
	CreatedAt    time.Time `json:"created_at"`
	LastLogin    time.Time `json:"last_login,omitempty"`
}

// RoleCounts is the superadmin dashboard tally. Roles outside the known set
// land in Other.
type RoleCounts struct {
	Superadmin int `json:"superadmin"`
	Admin      int `json:"admin"`
	User       int `json:"user"`
	Other      int `json:"other"`
}
