package user

import (
	"fmt"
)

type Repository interface {
	GetByID(userID int64) (*User, error)
	GetPermissions(userID int64) ([]string, error)
	IsActiveUser(userID int64) (bool, error)
	ActiveRoleMembers(roleID int64) ([]int64, error)
	ListRoles(tenantID int64) ([]*Role, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetByID(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	perms, err := s.repo.GetPermissions(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}
	u.Permissions = perms

	return u, nil
}

func (s *Service) GetPermissions(userID int64) ([]string, error) {
	return s.repo.GetPermissions(userID)
}

func (s *Service) ListRoles(tenantID int64) ([]*Role, error) {
	return s.repo.ListRoles(tenantID)
}

// IsActiveUser reports whether the user exists and is active. Used by
// approver resolution to drop deactivated users.
func (s *Service) IsActiveUser(userID int64) (bool, error) {
	return s.repo.IsActiveUser(userID)
}

// ActiveRoleMembers lists the IDs of active users holding the role.
func (s *Service) ActiveRoleMembers(roleID int64) ([]int64, error) {
	return s.repo.ActiveRoleMembers(roleID)
}
