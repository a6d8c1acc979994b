package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adityashravan/spendsavvy/internal/models"
	"github.com/adityashravan/spendsavvy/internal/storage"
)

// CreateExpense persists an expense and all of its splits in one
// transaction, so a failed split insert never leaves a partial expense.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupID any
	if expense.GroupID != "" {
		groupID = expense.GroupID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, total_amount, category, subcategory, created_by, group_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.TotalAmount, expense.Category,
		expense.Subcategory, expense.CreatedBy, groupID, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range expense.Splits {
		split := &expense.Splits[i]
		split.ExpenseID = expense.ID
		_, err = tx.ExecContext(ctx,
			"INSERT INTO splits (expense_id, user_id, amount, paid) VALUES (?, ?, ?, ?)",
			split.ExpenseID, split.UserID, split.Amount, split.Paid,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, splits included.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var groupID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, description, total_amount, category, subcategory, created_by, group_id, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.Description, &expense.TotalAmount, &expense.Category,
		&expense.Subcategory, &expense.CreatedBy, &groupID, &expense.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	if groupID.Valid {
		expense.GroupID = groupID.String
	}

	if err := s.loadSplits(ctx, map[string]*models.Expense{expense.ID: expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpensesInvolving returns every expense the user created or holds a
// split in, splits included, ordered by creation time then ID for
// deterministic balance computation.
func (s *SQLiteStore) ListExpensesInvolving(ctx context.Context, userID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT e.id, e.description, e.total_amount, e.category, e.subcategory,
		        e.created_by, e.group_id, e.created_at
		 FROM expenses e
		 LEFT JOIN splits sp ON sp.expense_id = e.id
		 WHERE e.created_by = ? OR sp.user_id = ?
		 ORDER BY e.created_at, e.id`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return s.collectExpenses(ctx, rows)
}

// ListExpensesByGroup returns a group's expenses, splits included, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, total_amount, category, subcategory, created_by, group_id, created_at
		 FROM expenses WHERE group_id = ?
		 ORDER BY created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group expenses: %w", err)
	}
	return s.collectExpenses(ctx, rows)
}

func (s *SQLiteStore) collectExpenses(ctx context.Context, rows *sql.Rows) ([]*models.Expense, error) {
	defer rows.Close()

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		expense := &models.Expense{}
		var groupID sql.NullString
		if err := rows.Scan(&expense.ID, &expense.Description, &expense.TotalAmount, &expense.Category,
			&expense.Subcategory, &expense.CreatedBy, &groupID, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if groupID.Valid {
			expense.GroupID = groupID.String
		}
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if err := s.loadSplits(ctx, byID); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *SQLiteStore) loadSplits(ctx context.Context, expenses map[string]*models.Expense) error {
	for id, expense := range expenses {
		rows, err := s.db.QueryContext(ctx,
			"SELECT expense_id, user_id, amount, paid FROM splits WHERE expense_id = ? ORDER BY user_id",
			id,
		)
		if err != nil {
			return fmt.Errorf("failed to get splits: %w", err)
		}
		for rows.Next() {
			var split models.Split
			if err := rows.Scan(&split.ExpenseID, &split.UserID, &split.Amount, &split.Paid); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan split: %w", err)
			}
			expense.Splits = append(expense.Splits, split)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate splits: %w", err)
		}
	}
	return nil
}

// MarkSplitPaid sets paid on one split. Re-marking a paid split is a
// no-op; a missing split is ErrNotFound.
func (s *SQLiteStore) MarkSplitPaid(ctx context.Context, expenseID, userID string) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM splits WHERE expense_id = ? AND user_id = ?",
		expenseID, userID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("split %s/%s: %w", expenseID, userID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check split existence: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE splits SET paid = 1 WHERE expense_id = ? AND user_id = ?",
		expenseID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark split paid: %w", err)
	}
	return nil
}

// SpendingByCategory aggregates per-category spend for one user: the full
// totals of expenses they created and their own split share across all
// expenses they participate in.
func (s *SQLiteStore) SpendingByCategory(ctx context.Context, userID string, since int64) ([]models.CategorySpend, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.category,
		        COALESCE(SUM(CASE WHEN e.created_by = ? THEN e.total_amount ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN sp.user_id = ? THEN sp.amount ELSE 0 END), 0),
		        COUNT(DISTINCT CASE WHEN e.created_by = ? THEN e.id END)
		 FROM expenses e
		 LEFT JOIN splits sp ON sp.expense_id = e.id AND sp.user_id = ?
		 WHERE (e.created_by = ? OR sp.user_id = ?) AND e.created_at >= ?
		 GROUP BY e.category
		 ORDER BY e.category`,
		userID, userID, userID, userID, userID, userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate spending: %w", err)
	}
	defer rows.Close()

	var spends []models.CategorySpend
	for rows.Next() {
		var cs models.CategorySpend
		if err := rows.Scan(&cs.Category, &cs.TotalSpent, &cs.YourShare, &cs.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category spend: %w", err)
		}
		spends = append(spends, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category spends: %w", err)
	}

	return spends, nil
}
