package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/procurement-portal/internal/approval"
	delegationDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/delegation"
	"github.com/frahmantamala/procurement-portal/internal/delegation"
	"gorm.io/gorm"
)

// DelegationRepository implements delegation.Repository and doubles as
// the approval resolver's delegation lookup.
type DelegationRepository struct {
	db *gorm.DB
}

func NewDelegationRepository(db *gorm.DB) *DelegationRepository {
	return &DelegationRepository{db: db}
}

func (r *DelegationRepository) Create(d *delegation.Delegation) error {
	m := delegation.ToDataModel(d)
	if err := r.db.Create(m).Error; err != nil {
		return err
	}
	*d = *delegation.FromDataModel(m)
	return nil
}

func (r *DelegationRepository) GetByID(id int64) (*delegation.Delegation, error) {
	var m delegationDatamodel.Delegation
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return delegation.FromDataModel(&m), nil
}

func (r *DelegationRepository) GetForUser(userID int64) ([]*delegation.Delegation, error) {
	var models []*delegationDatamodel.Delegation
	err := r.db.
		Where("delegator_id = ? OR delegate_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return delegation.FromDataModelSlice(models), nil
}

func (r *DelegationRepository) SetInactive(id int64) error {
	return r.db.Model(&delegationDatamodel.Delegation{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// ActiveDelegation returns the delegation covering the delegator at
// the given instant, or nil when none applies. Overlapping windows
// resolve to the most recently created grant.
func (r *DelegationRepository) ActiveDelegation(delegatorID int64, now time.Time) (*approval.ActiveDelegation, error) {
	var m delegationDatamodel.Delegation
	err := r.db.
		Where("delegator_id = ? AND is_active = ? AND start_date <= ? AND end_date >= ?",
			delegatorID, true, now, now).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &approval.ActiveDelegation{
		ID:          m.ID,
		DelegatorID: m.DelegatorID,
		DelegateID:  m.DelegateID,
	}, nil
}
