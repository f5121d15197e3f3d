package postgres

import (
	"errors"

	notificationDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/notification"
	"github.com/frahmantamala/procurement-portal/internal/notification"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *notification.Notification) error {
	m := notification.ToDataModel(n)
	if err := r.db.Create(m).Error; err != nil {
		return err
	}
	*n = *notification.FromDataModel(m)
	return nil
}

func (r *NotificationRepository) GetForUser(userID int64, unreadOnly bool, limit, offset int) ([]*notification.Notification, error) {
	query := r.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var models []*notificationDatamodel.Notification
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return notification.FromDataModelSlice(models), nil
}

func (r *NotificationRepository) GetByID(id int64) (*notification.Notification, error) {
	var m notificationDatamodel.Notification
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return notification.FromDataModel(&m), nil
}

func (r *NotificationRepository) MarkRead(id int64) error {
	return r.db.Model(&notificationDatamodel.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *NotificationRepository) CountUnread(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
