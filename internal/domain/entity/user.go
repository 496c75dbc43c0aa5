// Package entity contains the core business objects of the marketplace,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a marketplace account. Every user can bid; a user with a Seller
// profile can also list items.
type User struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Username  string    // Unique login name.
	Email     string    // Unique contact email, also accepted as a login identifier.
	FirstName string
	LastName  string
	Address   Address   // Shipping address used for won auctions.
	Phone     string    // Contact phone number.
	IsActive  bool      // Inactive accounts cannot log in.
	Seller    *Seller   // Nil until the user creates a seller profile.
	CreatedAt time.Time // Timestamp of when this user account was created.
	UpdatedAt time.Time // Timestamp of the last modification to this user's data.
}

// Address is a postal shipping address.
type Address struct {
	Line1   string
	Line2   string
	City    string
	State   string
	Zipcode string
}

// FullName returns "First Last", falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}

	return name
}

// IsSeller reports whether the user has a seller profile.
func (u *User) IsSeller() bool {
	return u.Seller != nil
}

// Roles derives the token roles of the user.
func (u *User) Roles() Roles {
	roles := Roles{RoleUser}
	if u.IsSeller() {
		roles = append(roles, RoleSeller)
	}

	return roles
}
