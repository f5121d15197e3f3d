package postgres

import (
	"errors"
	"time"

	documentDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/document"
	"github.com/frahmantamala/procurement-portal/internal/document"
	"gorm.io/gorm"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) document.Repository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *document.Document) error {
	m := document.ToDataModel(doc)
	if err := r.db.Create(m).Error; err != nil {
		return err
	}
	*doc = *document.FromDataModel(m)
	return nil
}

func (r *DocumentRepository) GetByID(id int64) (*document.Document, error) {
	var m documentDatamodel.Document
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return document.FromDataModel(&m), nil
}

func (r *DocumentRepository) GetByUserID(userID int64, limit, offset int) ([]*document.Document, error) {
	var models []*documentDatamodel.Document
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return document.FromDataModelSlice(models), nil
}

func (r *DocumentRepository) GetForTenant(tenantID int64, limit, offset int) ([]*document.Document, error) {
	var models []*documentDatamodel.Document
	err := r.db.
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return document.FromDataModelSlice(models), nil
}

func (r *DocumentRepository) Update(doc *document.Document) error {
	m := document.ToDataModel(doc)
	return r.db.Save(m).Error
}

func (r *DocumentRepository) UpdateStatus(id int64, status string, processedAt *time.Time) error {
	return r.db.Model(&documentDatamodel.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"processed_at": processedAt,
			"updated_at":   time.Now(),
		}).Error
}
