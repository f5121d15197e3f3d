package delegation

import (
	"errors"
	"time"
)

// CreateDelegationDTO is the request payload for delegating approval
// authority.
type CreateDelegationDTO struct {
	DelegateID int64     `json:"delegate_id" validate:"required"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required"`
	Reason     *string   `json:"reason,omitempty"`
}

func (dto CreateDelegationDTO) Validate() error {
	if dto.DelegateID == 0 {
		return errors.New("delegate_id is required")
	}
	if dto.StartDate.IsZero() {
		return errors.New("start_date is required")
	}
	if dto.EndDate.IsZero() {
		return errors.New("end_date is required")
	}
	return nil
}

// DelegationView adds the derived status to the stored fields.
type DelegationView struct {
	*Delegation
	Status string `json:"status"`
}

func NewDelegationView(d *Delegation, now time.Time) DelegationView {
	return DelegationView{Delegation: d, Status: d.Status(now)}
}
