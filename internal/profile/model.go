package profile

import "time"

// Role is the user's access level.
type Role string

const (
	// RoleOrdinary is assigned on first contact.
	RoleOrdinary Role = "ordinary"
	// RoleAdmin unlocks the user listing. It is provisioned out of band.
	RoleAdmin Role = "admin"
)

// Profile is the persisted record of one Telegram user.
type Profile struct {
	UserID             int64     `db:"tg_user_id"`
	Username           *string   `db:"username"`
	FirstName          string    `db:"first_name"`
	RegistrationNumber *int64    `db:"reg_number"`
	Role               Role      `db:"role"`
	CreatedAt          time.Time `db:"created_at"`
}

// IsAdmin reports whether the profile carries the admin role.
func (p Profile) IsAdmin() bool { return p.Role == RoleAdmin }

// Contact is what a first contact knows about the user.
type Contact struct {
	UserID    int64
	Username  string
	FirstName string
}

// Listing is one row of the admin user listing.
type Listing struct {
	Username           string `db:"username"`
	RegistrationNumber *int64 `db:"reg_number"`
}
