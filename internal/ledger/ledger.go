// Package ledger owns expense, split, and payment state and derives
// balances from it. Handlers pass the authenticated caller into every
// operation; the package holds no ambient identity.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/adityashravan/spendsavvy/internal/models"
	"github.com/adityashravan/spendsavvy/internal/storage"
)

// Service coordinates ledger operations over a storage backend.
type Service struct {
	store storage.Store
}

// New creates a ledger service with the given storage backend.
func New(store storage.Store) *Service {
	return &Service{store: store}
}

// CreateExpenseInput carries everything needed to record an expense.
// Participants are user IDs; the payer may or may not be among them.
type CreateExpenseInput struct {
	PayerID      string
	Description  string
	TotalAmount  float64
	Category     string
	Subcategory  string
	GroupID      string
	Participants []string
	Policy       models.SplitPolicy

	// CustomAmounts maps participant ID to share, required when Policy is
	// SplitCustom and ignored otherwise.
	CustomAmounts map[string]float64
}

// CreateExpense validates the request, allocates splits, and persists the
// expense atomically. Equal splits divide the total over every listed
// participant, payer included when listed; the payer's own split is
// written already paid since a self-share is settled by definition.
// Each non-payer participant gets a notification after the write commits.
func (s *Service) CreateExpense(ctx context.Context, in CreateExpenseInput) (*models.Expense, error) {
	if in.TotalAmount <= 0 {
		return nil, &ValidationError{Reason: "amount must be positive"}
	}
	if len(in.Participants) == 0 {
		return nil, &ValidationError{Reason: "at least one participant is required"}
	}
	if in.PayerID == "" {
		return nil, &ValidationError{Reason: "payer is required"}
	}

	seen := make(map[string]bool, len(in.Participants))
	for _, p := range in.Participants {
		if seen[p] {
			return nil, &ValidationError{Reason: fmt.Sprintf("duplicate participant %s", p)}
		}
		seen[p] = true
	}

	// Every referenced user must exist.
	ids := append([]string{in.PayerID}, in.Participants...)
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up participants: %w", err)
	}
	for _, id := range ids {
		if _, ok := users[id]; !ok {
			return nil, &NotFoundError{Resource: "user", ID: id}
		}
	}

	splits, err := allocateSplits(in)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Description: in.Description,
		TotalAmount: in.TotalAmount,
		Category:    in.Category,
		Subcategory: in.Subcategory,
		CreatedBy:   in.PayerID,
		GroupID:     in.GroupID,
		Splits:      splits,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	payer := users[in.PayerID]
	for _, split := range expense.Splits {
		if split.UserID == in.PayerID {
			continue
		}
		s.notify(ctx, split.UserID,
			fmt.Sprintf("%s added %q — your share is $%.2f", payer.Name, expense.Description, split.Amount),
			models.NotificationExpenseAdded,
			map[string]any{"expenseId": expense.ID, "amount": split.Amount, "payerId": in.PayerID},
		)
	}

	slog.Info("expense created",
		"expense_id", expense.ID,
		"payer_id", in.PayerID,
		"total", expense.TotalAmount,
		"participants", len(expense.Splits),
		"policy", in.Policy,
	)
	return expense, nil
}

// allocateSplits builds split rows for the configured policy. Equal
// shares are assigned in sorted participant order so leftover cents land
// deterministically.
func allocateSplits(in CreateExpenseInput) ([]models.Split, error) {
	participants := append([]string(nil), in.Participants...)
	sort.Strings(participants)

	var splits []models.Split
	switch in.Policy {
	case models.SplitEqual, "":
		shares := EqualShares(in.TotalAmount, len(participants))
		for i, userID := range participants {
			splits = append(splits, models.Split{
				UserID: userID,
				Amount: shares[i],
				Paid:   userID == in.PayerID,
			})
		}
	case models.SplitCustom:
		amounts := make([]float64, len(participants))
		for i, userID := range participants {
			amount, ok := in.CustomAmounts[userID]
			if !ok {
				return nil, &ValidationError{Reason: fmt.Sprintf("missing custom amount for participant %s", userID)}
			}
			amounts[i] = amount
		}
		if err := validateCustomShares(in.TotalAmount, amounts); err != nil {
			return nil, err
		}
		for i, userID := range participants {
			splits = append(splits, models.Split{
				UserID: userID,
				Amount: roundCents(amounts[i]),
				Paid:   userID == in.PayerID,
			})
		}
	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown split policy %q", in.Policy)}
	}
	return splits, nil
}

// PayShare marks the split for (expenseID, splitUserID) as paid. Paying an
// already-paid split is a no-op success, so duplicate submissions of the
// same payment are safe. Either the split's owner or the expense's creator
// may confirm settlement. An empty splitUserID means the caller's own share.
func (s *Service) PayShare(ctx context.Context, expenseID, callerID, splitUserID string) (*models.Expense, error) {
	if splitUserID == "" {
		splitUserID = callerID
	}

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Resource: "expense", ID: expenseID}
		}
		return nil, fmt.Errorf("failed to load expense: %w", err)
	}

	split := expense.SplitFor(splitUserID)
	if split == nil {
		return nil, &NotFoundError{Resource: "split", ID: expenseID + "/" + splitUserID}
	}
	if callerID != splitUserID && callerID != expense.CreatedBy {
		return nil, &ForbiddenError{Reason: "only the share's owner or the expense's creator can mark it paid"}
	}

	if split.Paid {
		return expense, nil
	}

	if err := s.store.MarkSplitPaid(ctx, expenseID, splitUserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Resource: "split", ID: expenseID + "/" + splitUserID}
		}
		return nil, fmt.Errorf("failed to mark split paid: %w", err)
	}
	split.Paid = true

	if expense.CreatedBy != splitUserID {
		s.notify(ctx, expense.CreatedBy,
			fmt.Sprintf("A $%.2f share of %q was settled", split.Amount, expense.Description),
			models.NotificationSharePaid,
			map[string]any{"expenseId": expense.ID, "userId": splitUserID, "amount": split.Amount},
		)
	}

	slog.Info("share paid", "expense_id", expenseID, "user_id", splitUserID, "amount", split.Amount)
	return expense, nil
}

// GetExpense loads one expense. Only the creator or a participant may view it.
func (s *Service) GetExpense(ctx context.Context, expenseID, callerID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Resource: "expense", ID: expenseID}
		}
		return nil, fmt.Errorf("failed to load expense: %w", err)
	}
	if expense.CreatedBy != callerID && expense.SplitFor(callerID) == nil {
		return nil, &ForbiddenError{Reason: "you must be a participant to view this expense"}
	}
	return expense, nil
}

// ListExpenses returns every expense the user created or participates in.
func (s *Service) ListExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	expenses, err := s.store.ListExpensesInvolving(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// ComputeBalances reads fresh expense state and derives per-friend net
// balances plus a summary. Results are never cached; every call reflects
// the latest payment state.
func (s *Service) ComputeBalances(ctx context.Context, userID string) ([]models.FriendBalance, models.BalanceSummary, error) {
	friends, err := s.store.ListFriends(ctx, userID)
	if err != nil {
		return nil, models.BalanceSummary{}, fmt.Errorf("failed to list friends: %w", err)
	}
	expenses, err := s.store.ListExpensesInvolving(ctx, userID)
	if err != nil {
		return nil, models.BalanceSummary{}, fmt.Errorf("failed to list expenses: %w", err)
	}

	// Group expenses can involve users who are not friends; resolve their
	// names too.
	known := make(map[string]bool, len(friends))
	for _, f := range friends {
		known[f.UserID] = true
	}
	var missing []string
	for _, e := range expenses {
		if e.CreatedBy != userID && !known[e.CreatedBy] {
			known[e.CreatedBy] = true
			missing = append(missing, e.CreatedBy)
		}
		for _, sp := range e.Splits {
			if sp.UserID != userID && !known[sp.UserID] {
				known[sp.UserID] = true
				missing = append(missing, sp.UserID)
			}
		}
	}
	names := make(map[string]string, len(missing))
	if len(missing) > 0 {
		users, err := s.store.GetUsersByIDs(ctx, missing)
		if err != nil {
			return nil, models.BalanceSummary{}, fmt.Errorf("failed to look up counterparties: %w", err)
		}
		for id, u := range users {
			names[id] = u.Name
		}
	}

	balances, summary := ComputeBalances(userID, expenses, friends, names)
	return balances, summary, nil
}

// notify persists a notification, logging failures instead of propagating
// them. Notification delivery never blocks a ledger operation.
func (s *Service) notify(ctx context.Context, userID, message string, typ models.NotificationType, data map[string]any) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Warn("notify: failed to encode payload", "user_id", userID, "error", err)
		payload = []byte("{}")
	}
	n := models.NewNotification(userID, message, typ, string(payload))
	if err := s.store.CreateNotification(ctx, n); err != nil {
		slog.Warn("notify: failed to create notification", "user_id", userID, "error", err)
	}
}
