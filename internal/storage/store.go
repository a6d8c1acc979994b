// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/adityashravan/spendsavvy/internal/models"
)

// Sentinel errors returned by Store implementations. Callers match with
// errors.Is and translate into their own error taxonomy.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines the interface for ledger persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger or handler layers.
type Store interface {
	// CreateUser persists a new user. Returns ErrAlreadyExists if the
	// email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if missing.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if missing.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByPhone retrieves a user by phone number. Returns ErrNotFound
	// if missing.
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)

	// GetUsersByIDs retrieves users keyed by ID. Missing IDs are simply
	// absent from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// CreateFriendship inserts both directed rows in one transaction.
	// Returns ErrAlreadyExists if the pair is already linked.
	CreateFriendship(ctx context.Context, userID, friendID string) error

	// DeleteFriendship removes both directed rows. Returns ErrNotFound if
	// the pair is not linked.
	DeleteFriendship(ctx context.Context, userID, friendID string) error

	// AreFriends reports whether a friendship row exists from userID to friendID.
	AreFriends(ctx context.Context, userID, friendID string) (bool, error)

	// ListFriends returns the user's friends with profile fields, ordered
	// by name then ID.
	ListFriends(ctx context.Context, userID string) ([]models.Friend, error)

	// CreateGroup persists a group and its member rows in one transaction.
	// Generates ID and CreatedAt when unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members. Returns ErrNotFound if missing.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// AddGroupMembers inserts member rows, skipping users already present.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error

	// ListGroupsForUser returns all groups the user belongs to.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// CreateExpense persists an expense and all of its splits atomically:
	// either every row is written or none are. Generates ID and CreatedAt
	// when unset.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its splits. Returns ErrNotFound
	// if missing.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesInvolving returns every expense the user created or
	// participates in, splits included, ordered by creation time then ID.
	ListExpensesInvolving(ctx context.Context, userID string) ([]*models.Expense, error)

	// ListExpensesByGroup returns a group's expenses, splits included,
	// newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// MarkSplitPaid sets paid on one split. The update is idempotent:
	// marking an already-paid split changes nothing. Returns ErrNotFound
	// if the split does not exist.
	MarkSplitPaid(ctx context.Context, expenseID, userID string) error

	// SpendingByCategory aggregates the user's spend per category for
	// expenses created at or after since (0 means all time).
	SpendingByCategory(ctx context.Context, userID string, since int64) ([]models.CategorySpend, error)

	// CreateNotification persists a notification.
	CreateNotification(ctx context.Context, n *models.Notification) error

	// ListNotifications returns the user's notifications, newest first.
	ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error)

	// MarkNotificationsRead flags the given notifications as read. An
	// empty ID list marks all of the user's notifications.
	MarkNotificationsRead(ctx context.Context, userID string, ids []string) error

	// Close releases any resources held by the store.
	Close() error
}
