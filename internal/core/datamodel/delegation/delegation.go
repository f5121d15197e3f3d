package delegation

import "time"

// Delegation grants a delegate the delegator's approval authority for
// a date range. Status (scheduled/active/expired) is derived from the
// range at read time and never stored.
type Delegation struct {
	ID          int64     `gorm:"primaryKey"`
	TenantID    int64     `gorm:"column:tenant_id;not null;index"`
	DelegatorID int64     `gorm:"column:delegator_id;not null;index"`
	DelegateID  int64     `gorm:"column:delegate_id;not null;index"`
	StartDate   time.Time `gorm:"column:start_date;not null"`
	EndDate     time.Time `gorm:"column:end_date;not null"`
	Reason      *string   `gorm:"column:reason"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Delegation) TableName() string { return "delegations" }
