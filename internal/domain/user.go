package domain

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleUser grants standard access: read everything, own reviews and comments.
	RoleUser Role = "user"
	// RoleModerator can edit or delete any review or comment.
	RoleModerator Role = "moderator"
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// ReservedUsername is the path segment used for the self-service profile
// endpoint and can never be registered as a username.
const ReservedUsername = "me"

// User represents an account in the system.
// Accounts are created through signup and stay inactive until the owner
// exchanges a confirmation code for an access token.
type User struct {
	Record
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      Role   `json:"role"`

	// ConfirmationCodeHash is the Argon2id hash of the latest confirmation
	// code mailed to the user. Stored hashed, filter from API responses.
	ConfirmationCodeHash string `json:"-"`

	// IsActive flips to true on the first successful token exchange.
	IsActive bool `json:"is_active"`

	// Staff and superuser flags mirror what an external admin tool might
	// set. Either one grants the same privileges as the admin role.
	IsStaff     bool `json:"is_staff"`
	IsSuperuser bool `json:"is_superuser"`
}

// IsAdmin returns true if the user has administrative privileges.
// Staff and superuser accounts are admins regardless of their role field.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsStaff || u.IsSuperuser
}

// IsModerator returns true if the user holds the moderator role.
// Admins are not implicitly moderators; policies grant them access separately.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

// DisplayName returns a human-readable label for the user.
func (u *User) DisplayName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}
