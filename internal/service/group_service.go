package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
)

// GroupService covers the minimal group management this core needs so that
// memberships exist: group creation, member addition, and the membership
// gates the API layer applies before read queries.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group and makes the creator its admin member.
func (s *GroupService) CreateGroup(ctx context.Context, name, creatorID string) (*models.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrValidation)
	}

	group := &models.Group{Name: name}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	membership := &models.Membership{UserID: creatorID, GroupID: group.ID, IsAdmin: true}
	if err := s.store.AddMembership(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to add creator membership: %w", err)
	}

	slog.Info("Group created", "group_id", group.ID, "name", group.Name, "creator", creatorID)

	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("group not found: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

// AddMember adds a user to a group. Only group admins may add members.
func (s *GroupService) AddMember(ctx context.Context, groupID, userID string, isAdmin bool, actorID string) (*models.Membership, error) {
	actor, err := requireMembership(ctx, s.store, actorID, groupID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: only group admins can add members", ErrForbidden)
	}

	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, err
	}

	membership := &models.Membership{UserID: userID, GroupID: groupID, IsAdmin: isAdmin}
	if err := s.store.AddMembership(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to add membership: %w", err)
	}

	slog.Info("Group member added", "group_id", groupID, "user_id", userID, "is_admin", isAdmin)

	return membership, nil
}

// RequireMember verifies the user holds a membership in the group. Used by
// the API layer to gate read queries.
func (s *GroupService) RequireMember(ctx context.Context, userID, groupID string) error {
	_, err := requireMembership(ctx, s.store, userID, groupID)
	return err
}

// RequireAdmin verifies the user holds an admin membership in the group.
func (s *GroupService) RequireAdmin(ctx context.Context, userID, groupID string) error {
	m, err := requireMembership(ctx, s.store, userID, groupID)
	if err != nil {
		return err
	}
	if !m.IsAdmin {
		return fmt.Errorf("%w: group admin required", ErrForbidden)
	}
	return nil
}
