package models

// FriendBalance is the derived net position between one user and one
// friend. Never persisted; recomputed from unpaid splits on every read.
type FriendBalance struct {
	// UserID and UserName identify the friend.
	UserID   string
	UserName string

	// OwesYou is the sum of unpaid splits on your expenses that belong
	// to this friend.
	OwesYou float64

	// YouOwe is the sum of your unpaid splits on this friend's expenses.
	YouOwe float64

	// NetBalance is OwesYou minus YouOwe. Positive means the friend owes
	// you money.
	NetBalance float64

	// Expenses lists the unpaid splits contributing to this balance,
	// ordered by creation time then expense ID.
	Expenses []BalanceExpense
}

// BalanceExpense is one unpaid split's contribution to a pairwise balance.
type BalanceExpense struct {
	ExpenseID   string
	Description string
	Category    string
	// Amount is the unpaid share. Positive when the friend owes you,
	// negative when you owe the friend.
	Amount    float64
	CreatedAt int64
}

// BalanceSummary aggregates a user's position across all friends.
type BalanceSummary struct {
	TotalOwedToYou float64
	TotalYouOwe    float64
	NetBalance     float64
	FriendCount    int
}

// CategorySpend is one row of the per-category analytics projection.
type CategorySpend struct {
	Category string
	// TotalSpent sums the full amounts of expenses the user created.
	TotalSpent float64
	// YourShare sums the user's own split amounts across all expenses
	// they participate in.
	YourShare float64
	// Count is the number of expenses contributing to TotalSpent.
	Count int
}
