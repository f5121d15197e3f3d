package notification

import "time"

// Notification is an in-app message produced from workflow events.
type Notification struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Kind      string    `gorm:"column:kind;not null"`
	Message   string    `gorm:"column:message;not null"`
	RefType   string    `gorm:"column:ref_type"`
	RefID     int64     `gorm:"column:ref_id"`
	IsRead    bool      `gorm:"column:is_read;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string { return "notifications" }
