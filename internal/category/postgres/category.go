package postgres

import (
	"github.com/frahmantamala/procurement-portal/internal/category"
	categoryDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/category"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAll() ([]*categoryDatamodel.DocumentCategory, error) {
	var categories []*categoryDatamodel.DocumentCategory
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByName(name string) (*categoryDatamodel.DocumentCategory, error) {
	var cat categoryDatamodel.DocumentCategory
	err := r.db.Where("name = ?", name).First(&cat).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) GetByID(id int64) (*categoryDatamodel.DocumentCategory, error) {
	var cat categoryDatamodel.DocumentCategory
	err := r.db.Where("id = ?", id).First(&cat).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(cat *categoryDatamodel.DocumentCategory) error {
	return r.db.Create(cat).Error
}

func (r *CategoryRepository) Update(cat *categoryDatamodel.DocumentCategory) error {
	return r.db.Save(cat).Error
}

func (r *CategoryRepository) Delete(id int64) error {
	return r.db.Model(&categoryDatamodel.DocumentCategory{}).Where("id = ?", id).Update("is_active", false).Error
}
