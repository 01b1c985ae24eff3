package models

// Group represents a set of users who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// Membership ties a user to a group. Every group-scoped operation requires
// the acting user to hold a membership; admin-gated operations additionally
// require IsAdmin.
type Membership struct {
	// UserID and GroupID form the unique key.
	UserID  string `json:"userId"`
	GroupID string `json:"groupId"`

	// IsAdmin grants group administration rights (settings updates,
	// settlement generation, editing other members' expenses).
	IsAdmin bool `json:"isAdmin"`

	// JoinedAt is the Unix timestamp when the user joined the group.
	JoinedAt int64 `json:"joinedAt"`
}
