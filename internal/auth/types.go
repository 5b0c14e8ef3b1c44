package auth

import "time"

// User account statuses. Only active users may complete login.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusInvited   = "invited"
	StatusSuspended = "suspended"
)

// User represents a human account, optionally scoped to an organisation.
type User struct {
	ID             string
	Email          string
	PasswordHash   string
	Status         string
	OrganisationID string
	RoleID         string
	DesignationID  string
	Mobile         string
	LastLoginAt    time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserView is the outward-facing representation of a user. Identity is a
// plain string and timestamps are RFC 3339 text; storage types never cross
// the service boundary.
type UserView struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Status         string `json:"status"`
	OrganisationID string `json:"organisation_id,omitempty"`
	RoleID         string `json:"role_id,omitempty"`
	DesignationID  string `json:"designation_id,omitempty"`
	Mobile         string `json:"mobile,omitempty"`
	LastLoginAt    string `json:"last_login_at,omitempty"`
}

// ValidStatus reports whether s is a recognised user status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusInvited, StatusSuspended:
		return true
	}
	return false
}

func viewOf(u *User) UserView {
	v := UserView{
		ID:             u.ID,
		Email:          u.Email,
		Status:         u.Status,
		OrganisationID: u.OrganisationID,
		RoleID:         u.RoleID,
		DesignationID:  u.DesignationID,
		Mobile:         u.Mobile,
	}
	if !u.LastLoginAt.IsZero() {
		v.LastLoginAt = u.LastLoginAt.UTC().Format(time.RFC3339)
	}
	return v
}
