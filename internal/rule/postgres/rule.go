package postgres

import (
	"errors"

	"github.com/frahmantamala/procurement-portal/internal/approval"
	approvalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/approval"
	"github.com/frahmantamala/procurement-portal/internal/rule"
	"gorm.io/gorm"
)

type RuleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) rule.RepositoryAPI {
	return &RuleRepository{db: db}
}

func (r *RuleRepository) Create(domainRule *approval.Rule) error {
	m := approval.RuleToDataModel(domainRule)
	if err := r.db.Create(m).Error; err != nil {
		return err
	}
	*domainRule = *approval.RuleFromDataModel(m)
	return nil
}

func (r *RuleRepository) GetByID(id int64) (*approval.Rule, error) {
	var m approvalDatamodel.ApprovalRule
	err := r.db.
		Preload("Levels", func(db *gorm.DB) *gorm.DB {
			return db.Order("level_order ASC")
		}).
		Preload("Levels.Approvers").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return approval.RuleFromDataModel(&m), nil
}

func (r *RuleRepository) GetForTenant(tenantID int64) ([]*approval.Rule, error) {
	var models []*approvalDatamodel.ApprovalRule
	err := r.db.
		Preload("Levels", func(db *gorm.DB) *gorm.DB {
			return db.Order("level_order ASC")
		}).
		Preload("Levels.Approvers").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	rules := make([]*approval.Rule, 0, len(models))
	for _, m := range models {
		rules = append(rules, approval.RuleFromDataModel(m))
	}
	return rules, nil
}

func (r *RuleRepository) GetActiveForDocumentType(tenantID int64, documentType string) ([]*approval.Rule, error) {
	var models []*approvalDatamodel.ApprovalRule
	err := r.db.
		Preload("Levels", func(db *gorm.DB) *gorm.DB {
			return db.Order("level_order ASC")
		}).
		Preload("Levels.Approvers").
		Where("tenant_id = ? AND document_type = ? AND is_active = ?", tenantID, documentType, true).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	rules := make([]*approval.Rule, 0, len(models))
	for _, m := range models {
		rules = append(rules, approval.RuleFromDataModel(m))
	}
	return rules, nil
}

// ReplaceLevels swaps a rule's level chain atomically. Specs cascade
// with their levels.
func (r *RuleRepository) ReplaceLevels(ruleID int64, levels []approval.Level) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var levelIDs []int64
		if err := tx.Model(&approvalDatamodel.ApprovalLevel{}).
			Where("rule_id = ?", ruleID).
			Pluck("id", &levelIDs).Error; err != nil {
			return err
		}
		if len(levelIDs) > 0 {
			if err := tx.Where("level_id IN ?", levelIDs).
				Delete(&approvalDatamodel.ApproverSpec{}).Error; err != nil {
				return err
			}
			if err := tx.Where("rule_id = ?", ruleID).
				Delete(&approvalDatamodel.ApprovalLevel{}).Error; err != nil {
				return err
			}
		}

		for _, level := range levels {
			lm := approvalDatamodel.ApprovalLevel{
				RuleID:     ruleID,
				LevelOrder: level.LevelOrder,
				Mode:       level.Mode,
				LevelType:  level.LevelType,
			}
			for _, spec := range level.Approvers {
				lm.Approvers = append(lm.Approvers, approvalDatamodel.ApproverSpec{
					SpecType: spec.SpecType,
					UserID:   spec.UserID,
					RoleID:   spec.RoleID,
				})
			}
			if err := tx.Create(&lm).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RuleRepository) Update(domainRule *approval.Rule) error {
	return r.db.Model(&approvalDatamodel.ApprovalRule{}).
		Where("id = ?", domainRule.ID).
		Updates(map[string]interface{}{
			"name":       domainRule.Name,
			"min_amount": domainRule.MinAmount,
			"max_amount": domainRule.MaxAmount,
			"category":   domainRule.Category,
			"is_active":  domainRule.IsActive,
			"updated_at": domainRule.UpdatedAt,
		}).Error
}

func (r *RuleRepository) Deactivate(id int64) error {
	return r.db.Model(&approvalDatamodel.ApprovalRule{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *RuleRepository) HasWorkflows(ruleID int64) (bool, error) {
	var count int64
	err := r.db.Model(&approvalDatamodel.ApprovalWorkflow{}).
		Where("rule_id = ?", ruleID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
