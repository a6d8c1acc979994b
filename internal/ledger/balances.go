package ledger

import (
	"sort"

	"github.com/adityashravan/spendsavvy/internal/models"
)

// ComputeBalances derives the pairwise net positions for one user from raw
// expense rows. It is a pure function: for the same inputs it returns
// identical results, with friends ordered by name then ID and contributing
// expenses ordered by creation time then expense ID.
//
// For each counterparty:
//   - owesYou sums unpaid splits held by them on expenses the user created
//   - youOwe sums the user's unpaid splits on expenses they created
//   - netBalance = owesYou - youOwe
//
// Friends with no outstanding splits still appear with zero balances, so
// every surface rendering the friend list agrees on the same entries.
func ComputeBalances(userID string, expenses []*models.Expense, friends []models.Friend, names map[string]string) ([]models.FriendBalance, models.BalanceSummary) {
	entries := make(map[string]*models.FriendBalance)

	nameOf := func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		return id
	}
	entry := func(id string) *models.FriendBalance {
		if e, ok := entries[id]; ok {
			return e
		}
		e := &models.FriendBalance{UserID: id, UserName: nameOf(id)}
		entries[id] = e
		return e
	}

	// Seed zero-balance entries for every friend.
	for _, f := range friends {
		e := entry(f.UserID)
		if f.Name != "" {
			e.UserName = f.Name
		}
	}

	for _, expense := range expenses {
		if expense.CreatedBy == userID {
			for _, split := range expense.Splits {
				if split.UserID == userID || split.Paid {
					continue
				}
				e := entry(split.UserID)
				e.OwesYou += split.Amount
				e.Expenses = append(e.Expenses, models.BalanceExpense{
					ExpenseID:   expense.ID,
					Description: expense.Description,
					Category:    expense.Category,
					Amount:      split.Amount,
					CreatedAt:   expense.CreatedAt,
				})
			}
			continue
		}

		split := expense.SplitFor(userID)
		if split == nil || split.Paid {
			continue
		}
		e := entry(expense.CreatedBy)
		e.YouOwe += split.Amount
		e.Expenses = append(e.Expenses, models.BalanceExpense{
			ExpenseID:   expense.ID,
			Description: expense.Description,
			Category:    expense.Category,
			Amount:      -split.Amount,
			CreatedAt:   expense.CreatedAt,
		})
	}

	balances := make([]models.FriendBalance, 0, len(entries))
	var summary models.BalanceSummary
	for _, e := range entries {
		e.OwesYou = roundCents(e.OwesYou)
		e.YouOwe = roundCents(e.YouOwe)
		e.NetBalance = roundCents(e.OwesYou - e.YouOwe)
		sort.Slice(e.Expenses, func(i, j int) bool {
			if e.Expenses[i].CreatedAt != e.Expenses[j].CreatedAt {
				return e.Expenses[i].CreatedAt < e.Expenses[j].CreatedAt
			}
			return e.Expenses[i].ExpenseID < e.Expenses[j].ExpenseID
		})
		summary.TotalOwedToYou += e.OwesYou
		summary.TotalYouOwe += e.YouOwe
		balances = append(balances, *e)
	}

	sort.Slice(balances, func(i, j int) bool {
		if balances[i].UserName != balances[j].UserName {
			return balances[i].UserName < balances[j].UserName
		}
		return balances[i].UserID < balances[j].UserID
	})

	summary.TotalOwedToYou = roundCents(summary.TotalOwedToYou)
	summary.TotalYouOwe = roundCents(summary.TotalYouOwe)
	summary.NetBalance = roundCents(summary.TotalOwedToYou - summary.TotalYouOwe)
	summary.FriendCount = len(balances)

	return balances, summary
}
