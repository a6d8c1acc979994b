package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/adityashravan/spendsavvy/internal/models"
	"github.com/adityashravan/spendsavvy/internal/storage"
)

// AddFriend links the caller with another user looked up by email or
// phone. The added user gets a notification.
func (s *Service) AddFriend(ctx context.Context, userID, email, phone string) (*models.Friend, error) {
	if email == "" && phone == "" {
		return nil, &ValidationError{Reason: "email or phone is required"}
	}

	var friend *models.User
	var err error
	if email != "" {
		friend, err = s.store.GetUserByEmail(ctx, email)
	} else {
		friend, err = s.store.GetUserByPhone(ctx, phone)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Resource: "user", ID: email + phone}
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if friend.ID == userID {
		return nil, &ValidationError{Reason: "cannot add yourself as a friend"}
	}

	if err := s.store.CreateFriendship(ctx, userID, friend.ID); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, &ValidationError{Reason: fmt.Sprintf("%s is already your friend", friend.Name)}
		}
		return nil, fmt.Errorf("failed to create friendship: %w", err)
	}

	if self, err := s.store.GetUserByID(ctx, userID); err == nil {
		s.notify(ctx, friend.ID,
			fmt.Sprintf("%s added you as a friend", self.Name),
			models.NotificationFriendAdded,
			map[string]any{"userId": userID},
		)
	}

	slog.Info("friend added", "user_id", userID, "friend_id", friend.ID)
	return &models.Friend{UserID: friend.ID, Name: friend.Name, Email: friend.Email, Phone: friend.Phone}, nil
}

// ListFriends returns the caller's friends.
func (s *Service) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	friends, err := s.store.ListFriends(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return friends, nil
}

// CanRemoveFriend reports whether the friendship may be removed. Removal
// is blocked only while the friend owes the caller money; the reverse
// direction does not block, on the theory that removing someone you owe
// just leaves you owing an ex-friend. The outstanding amount accompanies
// a false result.
func (s *Service) CanRemoveFriend(ctx context.Context, userID, friendID string) (bool, float64, error) {
	balances, _, err := s.ComputeBalances(ctx, userID)
	if err != nil {
		return false, 0, err
	}
	for _, b := range balances {
		if b.UserID == friendID && b.NetBalance > 0 {
			return false, b.NetBalance, nil
		}
	}
	return true, 0, nil
}

// RemoveFriend deletes the friendship after re-reading fresh balance
// state, so a debt created moments earlier still blocks removal.
func (s *Service) RemoveFriend(ctx context.Context, userID, friendID string) error {
	linked, err := s.store.AreFriends(ctx, userID, friendID)
	if err != nil {
		return fmt.Errorf("failed to check friendship: %w", err)
	}
	if !linked {
		return &NotFoundError{Resource: "friendship", ID: friendID}
	}

	ok, outstanding, err := s.CanRemoveFriend(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if !ok {
		return &ConflictError{
			Reason: fmt.Sprintf("cannot remove friend: they still owe you $%.2f", outstanding),
			Amount: outstanding,
		}
	}

	if err := s.store.DeleteFriendship(ctx, userID, friendID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &NotFoundError{Resource: "friendship", ID: friendID}
		}
		return fmt.Errorf("failed to delete friendship: %w", err)
	}

	if self, err := s.store.GetUserByID(ctx, userID); err == nil {
		s.notify(ctx, friendID,
			fmt.Sprintf("%s removed you as a friend", self.Name),
			models.NotificationFriendRemoved,
			map[string]any{"userId": userID},
		)
	}

	slog.Info("friend removed", "user_id", userID, "friend_id", friendID)
	return nil
}
