package document

import "time"

// Document is a procurement document routed through approval:
// purchase requisition, purchase order or supplier invoice.
type Document struct {
	ID           int64      `gorm:"primaryKey"`
	TenantID     int64      `gorm:"column:tenant_id;not null;index"`
	UserID       int64      `gorm:"column:user_id;not null;index"`
	DocumentType string     `gorm:"column:document_type;not null"`
	Number       string     `gorm:"column:number;uniqueIndex;not null"`
	Description  string     `gorm:"column:description;not null"`
	Category     string     `gorm:"column:category"`
	AmountIDR    int64      `gorm:"column:amount_idr;not null"`
	SupplierName string     `gorm:"column:supplier_name"`
	Status       string     `gorm:"column:status;default:draft"`
	SubmittedAt  *time.Time `gorm:"column:submitted_at"`
	ProcessedAt  *time.Time `gorm:"column:processed_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Document) TableName() string { return "documents" }
