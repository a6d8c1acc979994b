package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/adityashravan/spendsavvy/internal/models"
	"github.com/adityashravan/spendsavvy/internal/storage"
)

// CreateGroup creates a group with the caller as creator. The creator is
// always a member regardless of the supplied member list; every other
// member gets a notification.
func (s *Service) CreateGroup(ctx context.Context, creatorID, name string, memberIDs []string) (*models.Group, error) {
	if name == "" {
		return nil, &ValidationError{Reason: "group name is required"}
	}

	ids := append([]string{creatorID}, memberIDs...)
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up members: %w", err)
	}
	for _, id := range ids {
		if _, ok := users[id]; !ok {
			return nil, &NotFoundError{Resource: "user", ID: id}
		}
	}

	group := &models.Group{
		Name:      name,
		CreatedBy: creatorID,
		Members:   memberIDs,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	creator := users[creatorID]
	for _, memberID := range group.Members {
		if memberID == creatorID {
			continue
		}
		s.notify(ctx, memberID,
			fmt.Sprintf("%s added you to the group %q", creator.Name, group.Name),
			models.NotificationGroupAdded,
			map[string]any{"groupId": group.ID},
		)
	}

	slog.Info("group created", "group_id", group.ID, "created_by", creatorID, "members", len(group.Members))
	return group, nil
}

// GetGroup loads a group; only members may view it.
func (s *Service) GetGroup(ctx context.Context, groupID, callerID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Resource: "group", ID: groupID}
		}
		return nil, fmt.Errorf("failed to load group: %w", err)
	}
	if !group.HasMember(callerID) {
		return nil, &ForbiddenError{Reason: "you must be a member of this group"}
	}
	return group, nil
}

// ListGroups returns the groups the caller belongs to.
func (s *Service) ListGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// AddGroupMembers amends a group's membership. Only existing members may
// add users, and every added ID must exist.
func (s *Service) AddGroupMembers(ctx context.Context, groupID, callerID string, memberIDs []string) (*models.Group, error) {
	group, err := s.GetGroup(ctx, groupID, callerID)
	if err != nil {
		return nil, err
	}
	if len(memberIDs) == 0 {
		return nil, &ValidationError{Reason: "at least one member is required"}
	}

	users, err := s.store.GetUsersByIDs(ctx, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up members: %w", err)
	}
	for _, id := range memberIDs {
		if _, ok := users[id]; !ok {
			return nil, &NotFoundError{Resource: "user", ID: id}
		}
	}

	if err := s.store.AddGroupMembers(ctx, groupID, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to add group members: %w", err)
	}

	caller, _ := s.store.GetUsersByIDs(ctx, []string{callerID})
	callerName := callerID
	if u, ok := caller[callerID]; ok {
		callerName = u.Name
	}
	for _, memberID := range memberIDs {
		if memberID == callerID || group.HasMember(memberID) {
			continue
		}
		s.notify(ctx, memberID,
			fmt.Sprintf("%s added you to the group %q", callerName, group.Name),
			models.NotificationGroupAdded,
			map[string]any{"groupId": group.ID},
		)
	}

	return s.store.GetGroup(ctx, groupID)
}

// SettleGroupExpense records an expense inside a group. The payer must be
// a member and every participant must be a selected member of the group;
// the rest delegates to CreateExpense.
func (s *Service) SettleGroupExpense(ctx context.Context, groupID string, in CreateExpenseInput) (*models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Resource: "group", ID: groupID}
		}
		return nil, fmt.Errorf("failed to load group: %w", err)
	}

	if !group.HasMember(in.PayerID) {
		return nil, &ForbiddenError{Reason: "you must be a member of this group"}
	}
	for _, p := range in.Participants {
		if !group.HasMember(p) {
			return nil, &ValidationError{Reason: fmt.Sprintf("participant %s is not a member of group %q", p, group.Name)}
		}
	}

	in.GroupID = groupID
	return s.CreateExpense(ctx, in)
}

// ListGroupExpenses returns a group's expenses; only members may view them.
func (s *Service) ListGroupExpenses(ctx context.Context, groupID, callerID string) ([]*models.Expense, error) {
	if _, err := s.GetGroup(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group expenses: %w", err)
	}
	return expenses, nil
}
