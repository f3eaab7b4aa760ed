package user

import "time"

// Role determines which administrative surfaces a caller may reach.
type Role string

const (
	RoleResident Role = "RESIDENT"
	RoleCompany  Role = "COMPANY"
	RoleAdmin    Role = "ADMIN"
)

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) CanCollect() bool {
	return p.Role == RoleAdmin || p.Role == RoleCompany
}

// User is a registered household account served by the platform.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Locality  string
	Address   string
	CreatedAt time.Time
}
