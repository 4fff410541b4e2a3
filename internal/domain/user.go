package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants access to the triage and roster screens.
	RoleAdmin Role = "admin"
	// RoleMember grants standard consultation access.
	RoleMember Role = "member"
)

// User represents a registered account. The password never lives on this
// type; credentials are a separate record keyed by email.
type User struct {
	UID         string    `json:"uid" bson:"uid"`
	Email       string    `json:"email" bson:"email"`
	DisplayName string    `json:"displayName" bson:"displayName"`
	Username    string    `json:"username" bson:"username"`
	Role        Role      `json:"role" bson:"role"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Name returns the best available name to display for the user.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// Credential links a login email to its password hash and account.
// Stored in its own partition so the hash can never ride along on a
// User record returned to callers.
type Credential struct {
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"passwordHash" bson:"passwordHash"`
	UserID       string    `json:"userId" bson:"userId"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}
