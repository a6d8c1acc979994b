package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/adityashravan/spendsavvy/internal/models"
)

// HistoryFilters narrows a spending history query.
type HistoryFilters struct {
	// Category keeps only expenses in this category when non-empty.
	Category string
	// Since keeps only expenses created at or after this Unix timestamp.
	Since int64
	// Limit caps the number of entries; 0 means no cap.
	Limit int
}

// HistoryEntry is one row of a user's spending history.
type HistoryEntry struct {
	ExpenseID    string
	Description  string
	Category     string
	Subcategory  string
	TotalAmount  float64
	YourShare    float64
	SharePaid    bool
	CreatedByYou bool
	GroupID      string
	CreatedAt    int64
}

// SpendingByCategory aggregates the user's spend per category over the
// given timeframe: "week", "month", "year", or "all" (the default).
func (s *Service) SpendingByCategory(ctx context.Context, userID, timeframe string) ([]models.CategorySpend, error) {
	since, err := timeframeStart(timeframe)
	if err != nil {
		return nil, err
	}
	spends, err := s.store.SpendingByCategory(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate spending: %w", err)
	}
	return spends, nil
}

// SpendingHistory projects the user's expenses into history entries,
// newest first. Both self-created expenses and shares of others' expenses
// appear; YourShare reflects the user's own split when one exists.
func (s *Service) SpendingHistory(ctx context.Context, userID string, filters HistoryFilters) ([]HistoryEntry, error) {
	expenses, err := s.store.ListExpensesInvolving(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var entries []HistoryEntry
	for _, e := range expenses {
		if filters.Category != "" && e.Category != filters.Category {
			continue
		}
		if e.CreatedAt < filters.Since {
			continue
		}
		entry := HistoryEntry{
			ExpenseID:    e.ID,
			Description:  e.Description,
			Category:     e.Category,
			Subcategory:  e.Subcategory,
			TotalAmount:  e.TotalAmount,
			CreatedByYou: e.CreatedBy == userID,
			GroupID:      e.GroupID,
			CreatedAt:    e.CreatedAt,
		}
		if split := e.SplitFor(userID); split != nil {
			entry.YourShare = split.Amount
			entry.SharePaid = split.Paid
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt != entries[j].CreatedAt {
			return entries[i].CreatedAt > entries[j].CreatedAt
		}
		return entries[i].ExpenseID < entries[j].ExpenseID
	})

	if filters.Limit > 0 && len(entries) > filters.Limit {
		entries = entries[:filters.Limit]
	}
	return entries, nil
}

func timeframeStart(timeframe string) (int64, error) {
	now := time.Now()
	switch timeframe {
	case "week":
		return now.AddDate(0, 0, -7).Unix(), nil
	case "month":
		return now.AddDate(0, -1, 0).Unix(), nil
	case "year":
		return now.AddDate(-1, 0, 0).Unix(), nil
	case "", "all":
		return 0, nil
	default:
		return 0, &ValidationError{Reason: fmt.Sprintf("unknown timeframe %q", timeframe)}
	}
}
