package delegation

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/procurement-portal/internal"
)

// Repository defines the data access methods for delegations.
type Repository interface {
	Create(d *Delegation) error
	GetByID(id int64) (*Delegation, error)
	GetForUser(userID int64) ([]*Delegation, error)
	SetInactive(id int64) error
}

// Service manages time-bounded approval delegations. Creating or
// cancelling a delegation never touches already-materialized approval
// instances; substitution happens only when a level activates.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateDelegation validates the window and persists the grant.
// Overlapping windows for the same delegator are allowed; resolution
// picks the most recently created one.
func (s *Service) CreateDelegation(tenantID, delegatorID int64, dto CreateDelegationDTO) (*Delegation, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("delegation validation failed", "error", err, "delegator_id", delegatorID)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if dto.StartDate.After(dto.EndDate) {
		s.logger.Warn("rejected delegation with inverted window",
			"delegator_id", delegatorID,
			"start_date", dto.StartDate,
			"end_date", dto.EndDate)
		return nil, internal.ErrInvalidDelegationWindow
	}

	if dto.DelegateID == delegatorID {
		return nil, internal.ErrSelfDelegation
	}

	delegation := &Delegation{
		TenantID:    tenantID,
		DelegatorID: delegatorID,
		DelegateID:  dto.DelegateID,
		StartDate:   dto.StartDate,
		EndDate:     dto.EndDate,
		Reason:      dto.Reason,
		IsActive:    true,
	}

	if err := s.repo.Create(delegation); err != nil {
		s.logger.Error("failed to create delegation", "error", err, "delegator_id", delegatorID)
		return nil, err
	}

	s.logger.Info("delegation created",
		"delegation_id", delegation.ID,
		"delegator_id", delegatorID,
		"delegate_id", dto.DelegateID,
		"start_date", dto.StartDate,
		"end_date", dto.EndDate)

	return delegation, nil
}

// CancelDelegation soft-cancels the grant. Only the delegator may
// cancel; levels activated while it was active keep their
// delegate-assigned instances.
func (s *Service) CancelDelegation(delegationID, callerID int64) error {
	delegation, err := s.repo.GetByID(delegationID)
	if err != nil {
		s.logger.Error("failed to get delegation", "error", err, "delegation_id", delegationID)
		return err
	}
	if delegation == nil {
		return internal.ErrDelegationNotFound
	}
	if delegation.DelegatorID != callerID {
		s.logger.Warn("cancel delegation denied: caller is not the delegator",
			"delegation_id", delegationID,
			"caller_id", callerID,
			"delegator_id", delegation.DelegatorID)
		return internal.ErrUnauthorizedAccess
	}
	if !delegation.IsActive {
		return internal.ErrInvalidTransition
	}

	if err := s.repo.SetInactive(delegationID); err != nil {
		s.logger.Error("failed to cancel delegation", "error", err, "delegation_id", delegationID)
		return err
	}

	s.logger.Info("delegation cancelled", "delegation_id", delegationID, "delegator_id", callerID)
	return nil
}

// ListForUser returns delegations where the user is delegator or
// delegate, with derived statuses.
func (s *Service) ListForUser(userID int64) ([]DelegationView, error) {
	delegations, err := s.repo.GetForUser(userID)
	if err != nil {
		s.logger.Error("failed to list delegations", "error", err, "user_id", userID)
		return nil, err
	}

	now := time.Now()
	views := make([]DelegationView, 0, len(delegations))
	for _, d := range delegations {
		views = append(views, NewDelegationView(d, now))
	}
	return views, nil
}
