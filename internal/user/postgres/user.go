package postgres

import (
	"errors"

	userDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/procurement-portal/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(userID int64) (*user.User, error) {
	var m userDatamodel.User
	err := r.db.Where("id = ?", userID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&m), nil
}

func (r *UserRepository) GetPermissions(userID int64) ([]string, error) {
	var permissions []string
	err := r.db.
		Table("user_permissions").
		Select("permissions.name").
		Joins("JOIN permissions ON permissions.id = user_permissions.permission_id").
		Where("user_permissions.user_id = ?", userID).
		Pluck("permissions.name", &permissions).Error
	if err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *UserRepository) IsActiveUser(userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).
		Where("id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) ActiveRoleMembers(roleID int64) ([]int64, error) {
	var userIDs []int64
	err := r.db.
		Table("role_members").
		Joins("JOIN users ON users.id = role_members.user_id").
		Where("role_members.role_id = ? AND users.is_active = ?", roleID, true).
		Pluck("role_members.user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}

func (r *UserRepository) ListRoles(tenantID int64) ([]*user.Role, error) {
	var models []*userDatamodel.Role
	err := r.db.
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	roles := make([]*user.Role, 0, len(models))
	for _, m := range models {
		roles = append(roles, &user.Role{
			ID:          m.ID,
			TenantID:    m.TenantID,
			Name:        m.Name,
			Description: m.Description,
			CreatedAt:   m.CreatedAt,
		})
	}
	return roles, nil
}
