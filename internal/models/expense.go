package models

// SplitPolicy selects how an expense total is allocated across participants.
type SplitPolicy string

const (
	// SplitEqual divides the total evenly over all participants, with
	// leftover cents assigned deterministically.
	SplitEqual SplitPolicy = "equal"

	// SplitCustom uses caller-supplied per-participant amounts, which must
	// sum to the expense total within a one-cent tolerance.
	SplitCustom SplitPolicy = "custom"
)

// Expense represents a single spending event created by one user and
// divided among participants. An expense is immutable once created; only
// the Paid flag on its splits changes afterwards.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is the human-readable label (e.g., "Dinner at Olive Garden").
	Description string

	// TotalAmount is the full amount paid by the creator, in dollars.
	TotalAmount float64

	// Category and Subcategory classify the spend for analytics
	// (e.g., "food" / "restaurant").
	Category    string
	Subcategory string

	// CreatedBy is the user ID of the payer who created the expense.
	CreatedBy string

	// GroupID links the expense to a group, or is empty for a direct
	// friend expense.
	GroupID string

	// Splits is one entry per participant. Their amounts sum to
	// TotalAmount exactly.
	Splits []Split

	// CreatedAt is the Unix timestamp when the expense was created.
	CreatedAt int64
}

// Split is one participant's allocated share of an expense.
type Split struct {
	// ExpenseID is the owning expense.
	ExpenseID string

	// UserID is the participant this share belongs to.
	UserID string

	// Amount is the allocated share in dollars.
	Amount float64

	// Paid marks the share as settled. The payer's own share, when the
	// payer is listed as a participant, is written already paid.
	Paid bool
}

// SplitFor returns the split belonging to the given user, or nil.
func (e *Expense) SplitFor(userID string) *Split {
	for i := range e.Splits {
		if e.Splits[i].UserID == userID {
			return &e.Splits[i]
		}
	}
	return nil
}
