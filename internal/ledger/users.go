package ledger

import (
	"context"
	"fmt"
)

// UserNames resolves display names for a set of user IDs. Unknown IDs map
// to themselves so callers always have something renderable.
func (s *Service) UserNames(ctx context.Context, ids []string) (map[string]string, error) {
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up users: %w", err)
	}
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			names[id] = u.Name
		} else {
			names[id] = id
		}
	}
	return names, nil
}
