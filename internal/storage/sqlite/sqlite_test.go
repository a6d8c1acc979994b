package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adityashravan/spendsavvy/internal/models"
	"github.com/adityashravan/spendsavvy/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "spendsavvy-sqlite-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUser(t *testing.T, store *SQLiteStore, name, email, phone string) *models.User {
	t.Helper()
	user := models.NewUser(name, email, phone, "hash", models.RoleUser)
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %s: %v", name, err)
	}
	return user
}

func TestUserRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, store, "Alice", "alice@example.com", "+1-555-0100")

	byID, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID.Email != user.Email || byID.Name != user.Name || byID.Role != models.RoleUser {
		t.Errorf("got %+v, want %+v", byID, user)
	}

	byEmail, err := store.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("GetUserByEmail returned %s, want %s", byEmail.ID, user.ID)
	}

	byPhone, err := store.GetUserByPhone(ctx, user.Phone)
	if err != nil {
		t.Fatalf("GetUserByPhone failed: %v", err)
	}
	if byPhone.ID != user.ID {
		t.Errorf("GetUserByPhone returned %s, want %s", byPhone.ID, user.ID)
	}

	if _, err := store.GetUserByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing user: got %v, want ErrNotFound", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, "Alice", "alice@example.com", "")

	dup := models.NewUser("Impostor", "alice@example.com", "", "hash", models.RoleUser)
	if err := store.CreateUser(ctx, dup); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("duplicate email: got %v, want ErrAlreadyExists", err)
	}
}

func TestGetUsersByIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := seedUser(t, store, "Alice", "alice@example.com", "")
	b := seedUser(t, store, "Bob", "bob@example.com", "")

	users, err := store.GetUsersByIDs(ctx, []string{a.ID, b.ID, "missing"})
	if err != nil {
		t.Fatalf("GetUsersByIDs failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	if users[a.ID].Name != "Alice" || users[b.ID].Name != "Bob" {
		t.Errorf("wrong users returned: %+v", users)
	}
	if _, ok := users["missing"]; ok {
		t.Error("missing ID should be absent from the result, not an error")
	}
}

func TestFriendshipSymmetry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := seedUser(t, store, "Alice", "alice@example.com", "")
	b := seedUser(t, store, "Bob", "bob@example.com", "")

	if err := store.CreateFriendship(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("CreateFriendship failed: %v", err)
	}

	// One call writes both directed rows.
	for _, pair := range [][2]string{{a.ID, b.ID}, {b.ID, a.ID}} {
		ok, err := store.AreFriends(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatalf("AreFriends failed: %v", err)
		}
		if !ok {
			t.Errorf("AreFriends(%s, %s) = false, want true", pair[0], pair[1])
		}
	}

	if err := store.CreateFriendship(ctx, b.ID, a.ID); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("re-linking: got %v, want ErrAlreadyExists", err)
	}

	friends, err := store.ListFriends(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	if len(friends) != 1 || friends[0].UserID != b.ID || friends[0].Name != "Bob" {
		t.Errorf("friends = %+v, want just Bob", friends)
	}

	// Deleting removes both directions.
	if err := store.DeleteFriendship(ctx, b.ID, a.ID); err != nil {
		t.Fatalf("DeleteFriendship failed: %v", err)
	}
	ok, _ := store.AreFriends(ctx, a.ID, b.ID)
	if ok {
		t.Error("friendship should be gone in both directions")
	}
	if err := store.DeleteFriendship(ctx, a.ID, b.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("deleting a missing friendship: got %v, want ErrNotFound", err)
	}
}

func TestGroupRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := seedUser(t, store, "Alice", "alice@example.com", "")
	b := seedUser(t, store, "Bob", "bob@example.com", "")
	c := seedUser(t, store, "Carol", "carol@example.com", "")

	group := &models.Group{
		Name:      "Roommates",
		CreatedBy: a.ID,
		Members:   []string{b.ID},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if group.ID == "" || group.CreatedAt == 0 {
		t.Error("expected generated ID and CreatedAt")
	}

	loaded, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if !loaded.HasMember(a.ID) {
		t.Error("creator should be persisted as a member")
	}
	if !loaded.HasMember(b.ID) {
		t.Error("listed member missing from the group")
	}

	// Adding an existing member is a no-op; new members are appended.
	if err := store.AddGroupMembers(ctx, group.ID, []string{b.ID, c.ID}); err != nil {
		t.Fatalf("AddGroupMembers failed: %v", err)
	}
	loaded, err = store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(loaded.Members) != 3 {
		t.Errorf("got %d members, want 3", len(loaded.Members))
	}

	groups, err := store.ListGroupsForUser(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListGroupsForUser failed: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != group.ID {
		t.Errorf("Carol's groups = %+v, want the roommates group", groups)
	}
}

func TestExpenseRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := seedUser(t, store, "Alice", "alice@example.com", "")
	b := seedUser(t, store, "Bob", "bob@example.com", "")

	expense := &models.Expense{
		Description: "Dinner",
		TotalAmount: 90.0,
		Category:    "food",
		Subcategory: "restaurant",
		CreatedBy:   a.ID,
		Splits: []models.Split{
			{UserID: a.ID, Amount: 45.0, Paid: true},
			{UserID: b.ID, Amount: 45.0},
		},
	}
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if expense.ID == "" || expense.CreatedAt == 0 {
		t.Error("expected generated ID and CreatedAt")
	}

	loaded, err := store.GetExpense(ctx, expense.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if loaded.TotalAmount != 90.0 || loaded.Category != "food" || loaded.GroupID != "" {
		t.Errorf("loaded = %+v", loaded)
	}
	if len(loaded.Splits) != 2 {
		t.Fatalf("got %d splits, want 2", len(loaded.Splits))
	}
	for _, split := range loaded.Splits {
		if split.ExpenseID != expense.ID {
			t.Errorf("split expenseID = %q, want %q", split.ExpenseID, expense.ID)
		}
		if split.UserID == a.ID && !split.Paid {
			t.Error("Alice's split should be paid")
		}
	}

	if _, err := store.GetExpense(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing expense: got %v, want ErrNotFound", err)
	}
}

func TestListExpensesInvolvingOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := seedUser(t, store, "Alice", "alice@example.com", "")
	b := seedUser(t, store, "Bob", "bob@example.com", "")

	first := &models.Expense{
		Description: "Older", TotalAmount: 10, Category: "misc", CreatedBy: a.ID,
		CreatedAt: 1000,
		Splits:    []models.Split{{UserID: b.ID, Amount: 10}},
	}
	second := &models.Expense{
		Description: "Newer", TotalAmount: 20, Category: "misc", CreatedBy: b.ID,
		CreatedAt: 2000,
		Splits:    []models.Split{{UserID: a.ID, Amount: 20}},
	}
	for _, e := range []*models.Expense{second, first} {
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	expenses, err := store.ListExpensesInvolving(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListExpensesInvolving failed: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("got %d expenses, want 2", len(expenses))
	}
	if expenses[0].ID != first.ID || expenses[1].ID != second.ID {
		t.Errorf("expenses not ordered oldest first: %s, %s", expenses[0].Description, expenses[1].Description)
	}
}

func TestMarkSplitPaid(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := seedUser(t, store, "Alice", "alice@example.com", "")
	b := seedUser(t, store, "Bob", "bob@example.com", "")

	expense := &models.Expense{
		Description: "Lunch", TotalAmount: 20, Category: "food", CreatedBy: a.ID,
		Splits: []models.Split{{UserID: b.ID, Amount: 20}},
	}
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	// Marking twice leaves the split paid with no error.
	for i := 0; i < 2; i++ {
		if err := store.MarkSplitPaid(ctx, expense.ID, b.ID); err != nil {
			t.Fatalf("MarkSplitPaid (call %d) failed: %v", i+1, err)
		}
	}
	loaded, err := store.GetExpense(ctx, expense.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if !loaded.Splits[0].Paid {
		t.Error("split should be paid")
	}

	if err := store.MarkSplitPaid(ctx, expense.ID, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing split: got %v, want ErrNotFound", err)
	}
}

func TestSpendingByCategory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := seedUser(t, store, "Alice", "alice@example.com", "")
	b := seedUser(t, store, "Bob", "bob@example.com", "")

	expenses := []*models.Expense{
		{
			Description: "Dinner", TotalAmount: 90, Category: "food", CreatedBy: a.ID,
			CreatedAt: 1000,
			Splits: []models.Split{
				{UserID: a.ID, Amount: 45, Paid: true},
				{UserID: b.ID, Amount: 45},
			},
		},
		{
			Description: "Snacks", TotalAmount: 10, Category: "food", CreatedBy: a.ID,
			CreatedAt: 2000,
			Splits:    []models.Split{{UserID: a.ID, Amount: 10, Paid: true}},
		},
		{
			Description: "Cab", TotalAmount: 24, Category: "travel", CreatedBy: b.ID,
			CreatedAt: 3000,
			Splits: []models.Split{
				{UserID: a.ID, Amount: 12},
				{UserID: b.ID, Amount: 12, Paid: true},
			},
		},
	}
	for _, e := range expenses {
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	spends, err := store.SpendingByCategory(ctx, a.ID, 0)
	if err != nil {
		t.Fatalf("SpendingByCategory failed: %v", err)
	}
	if len(spends) != 2 {
		t.Fatalf("got %d categories, want 2: %+v", len(spends), spends)
	}

	// Ordered by category name: food before travel.
	food, travel := spends[0], spends[1]
	if food.Category != "food" || food.TotalSpent != 100.0 || food.YourShare != 55.0 || food.Count != 2 {
		t.Errorf("food = %+v, want total 100.00, share 55.00, count 2", food)
	}
	if travel.Category != "travel" || travel.TotalSpent != 0 || travel.YourShare != 12.0 || travel.Count != 0 {
		t.Errorf("travel = %+v, want total 0, share 12.00, count 0", travel)
	}

	// A since cutoff excludes older expenses.
	spends, err = store.SpendingByCategory(ctx, a.ID, 2500)
	if err != nil {
		t.Fatalf("SpendingByCategory with cutoff failed: %v", err)
	}
	if len(spends) != 1 || spends[0].Category != "travel" {
		t.Errorf("post-cutoff spends = %+v, want travel only", spends)
	}
}

func TestNotifications(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := seedUser(t, store, "Alice", "alice@example.com", "")

	older := models.NewNotification(a.ID, "first", models.NotificationExpenseAdded, `{"amount":30}`)
	older.CreatedAt = 1000
	newer := models.NewNotification(a.ID, "second", models.NotificationSharePaid, "{}")
	newer.CreatedAt = 2000
	for _, n := range []*models.Notification{older, newer} {
		if err := store.CreateNotification(ctx, n); err != nil {
			t.Fatalf("CreateNotification failed: %v", err)
		}
	}

	list, err := store.ListNotifications(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d notifications, want 2", len(list))
	}
	if list[0].Message != "second" {
		t.Errorf("notifications should be newest first, got %q", list[0].Message)
	}
	if list[1].Data != `{"amount":30}` || list[1].Type != models.NotificationExpenseAdded {
		t.Errorf("payload round trip failed: %+v", list[1])
	}

	// Marking a specific ID leaves the other unread.
	if err := store.MarkNotificationsRead(ctx, a.ID, []string{older.ID}); err != nil {
		t.Fatalf("MarkNotificationsRead failed: %v", err)
	}
	list, _ = store.ListNotifications(ctx, a.ID)
	for _, n := range list {
		if n.ID == older.ID && !n.IsRead {
			t.Error("older notification should be read")
		}
		if n.ID == newer.ID && n.IsRead {
			t.Error("newer notification should still be unread")
		}
	}

	// An empty ID list marks everything.
	if err := store.MarkNotificationsRead(ctx, a.ID, nil); err != nil {
		t.Fatalf("MarkNotificationsRead(all) failed: %v", err)
	}
	list, _ = store.ListNotifications(ctx, a.ID)
	for _, n := range list {
		if !n.IsRead {
			t.Errorf("notification %q should be read", n.Message)
		}
	}
}
