package delegation

import (
	"time"

	delegationDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/delegation"
)

// Derived delegation statuses, computed against "now" at read time.
// Expiry needs no row mutation and no background job.
const (
	StatusScheduled = "scheduled"
	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

type Delegation struct {
	ID          int64     `json:"id"`
	TenantID    int64     `json:"tenant_id"`
	DelegatorID int64     `json:"delegator_id"`
	DelegateID  int64     `json:"delegate_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Reason      *string   `json:"reason,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Status derives the delegation's state at the given instant.
func (d *Delegation) Status(now time.Time) string {
	if !d.IsActive {
		return StatusCancelled
	}
	if now.Before(d.StartDate) {
		return StatusScheduled
	}
	if now.After(d.EndDate) {
		return StatusExpired
	}
	return StatusActive
}

// CoversAt reports whether the delegation substitutes the delegator's
// approval authority at the given instant.
func (d *Delegation) CoversAt(now time.Time) bool {
	return d.Status(now) == StatusActive
}

func ToDataModel(d *Delegation) *delegationDatamodel.Delegation {
	return &delegationDatamodel.Delegation{
		ID:          d.ID,
		TenantID:    d.TenantID,
		DelegatorID: d.DelegatorID,
		DelegateID:  d.DelegateID,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Reason:      d.Reason,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func FromDataModel(m *delegationDatamodel.Delegation) *Delegation {
	return &Delegation{
		ID:          m.ID,
		TenantID:    m.TenantID,
		DelegatorID: m.DelegatorID,
		DelegateID:  m.DelegateID,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Reason:      m.Reason,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*delegationDatamodel.Delegation) []*Delegation {
	result := make([]*Delegation, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
