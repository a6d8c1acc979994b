package models

// Friendship is an undirected relation between two users, stored as two
// directed rows for symmetric queries. A friendship may not be removed
// while the friend still owes the remover money; the reverse direction
// does not block removal.
type Friendship struct {
	// UserID is the owner of this directed row.
	UserID string

	// FriendID is the counterparty.
	FriendID string

	// CreatedAt is the Unix timestamp when the friendship was created.
	CreatedAt int64
}

// Friend is a friendship row joined with the counterparty's profile,
// as returned by friend listings.
type Friend struct {
	UserID string
	Name   string
	Email  string
	Phone  string
}
