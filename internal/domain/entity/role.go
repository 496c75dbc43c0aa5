package entity

// Role is derived from the account, never stored: every user bids and pays,
// and owning a seller profile adds RoleSeller.
type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
)

func (r Role) String() string {
	return string(r)
}

type Roles []Role

// ToStrings renders roles for API views.
func (rs Roles) ToStrings() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}

	return out
}
