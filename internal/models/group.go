package models

// Group represents a reusable set of users who split expenses together.
// The creator is always a member. Expenses can optionally belong to a
// group, enabling per-group history and settlement.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Goa Trip").
	Name string

	// CreatedBy is the user ID of the group creator.
	CreatedBy string

	// Members is the list of member user IDs, creator included.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether the given user belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
