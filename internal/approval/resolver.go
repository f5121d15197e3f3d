package approval

import (
	"log/slog"
	"time"
)

// Directory answers membership questions against the tenant's user
// store at resolution time, so role changes are picked up without any
// invalidation machinery.
type Directory interface {
	IsActiveUser(userID int64) (bool, error)
	ActiveRoleMembers(roleID int64) ([]int64, error)
}

// DelegationLookup finds the delegation covering a delegator at a
// point in time. Implementations must return the most recently created
// active delegation when windows overlap; that is the documented
// tie-break. A nil result means no substitution.
type DelegationLookup interface {
	ActiveDelegation(delegatorID int64, now time.Time) (*ActiveDelegation, error)
}

type ActiveDelegation struct {
	ID          int64
	DelegatorID int64
	DelegateID  int64
}

// ResolvedApprover is one concrete user who must decide at a level.
// DelegatedFrom is set when the user acts on behalf of the original
// approver through an active delegation.
type ResolvedApprover struct {
	ApproverID    int64
	DelegatedFrom *int64
}

// Resolver turns a level's approver specs into the concrete,
// de-duplicated approver set, applying delegation substitution.
type Resolver struct {
	directory   Directory
	delegations DelegationLookup
	logger      *slog.Logger
}

func NewResolver(directory Directory, delegations DelegationLookup, logger *slog.Logger) *Resolver {
	return &Resolver{
		directory:   directory,
		delegations: delegations,
		logger:      logger,
	}
}

// ResolveLevel resolves every spec of the level at the given instant.
// Deactivated fixed users and empty roles are skipped, never errors;
// an empty result means the level should be auto-skipped.
func (r *Resolver) ResolveLevel(level *Level, now time.Time) ([]ResolvedApprover, error) {
	var base []int64
	seen := make(map[int64]bool)

	for _, spec := range level.Approvers {
		switch spec.SpecType {
		case SpecTypeUser:
			if spec.UserID == nil {
				r.logger.Warn("approver spec without user reference", "spec_id", spec.ID)
				continue
			}
			active, err := r.directory.IsActiveUser(*spec.UserID)
			if err != nil {
				return nil, err
			}
			if !active {
				r.logger.Info("skipping deactivated approver",
					"level_id", level.ID,
					"user_id", *spec.UserID)
				continue
			}
			if !seen[*spec.UserID] {
				seen[*spec.UserID] = true
				base = append(base, *spec.UserID)
			}
		case SpecTypeRole:
			if spec.RoleID == nil {
				r.logger.Warn("approver spec without role reference", "spec_id", spec.ID)
				continue
			}
			members, err := r.directory.ActiveRoleMembers(*spec.RoleID)
			if err != nil {
				return nil, err
			}
			for _, userID := range members {
				if !seen[userID] {
					seen[userID] = true
					base = append(base, userID)
				}
			}
		default:
			r.logger.Warn("unknown approver spec type", "spec_id", spec.ID, "spec_type", spec.SpecType)
		}
	}

	var resolved []ResolvedApprover
	byFinal := make(map[int64]int)

	for _, approverID := range base {
		final := ResolvedApprover{ApproverID: approverID}

		delegation, err := r.delegations.ActiveDelegation(approverID, now)
		if err != nil {
			return nil, err
		}
		if delegation != nil {
			delegateActive, err := r.directory.IsActiveUser(delegation.DelegateID)
			if err != nil {
				return nil, err
			}
			if delegateActive {
				original := approverID
				final = ResolvedApprover{
					ApproverID:    delegation.DelegateID,
					DelegatedFrom: &original,
				}
				r.logger.Info("substituting delegate for approver",
					"level_id", level.ID,
					"delegator_id", original,
					"delegate_id", delegation.DelegateID,
					"delegation_id", delegation.ID)
			}
		}

		if idx, dup := byFinal[final.ApproverID]; dup {
			// One instance per final approver; a direct assignment
			// wins over a delegated one.
			if resolved[idx].DelegatedFrom != nil && final.DelegatedFrom == nil {
				resolved[idx] = final
			}
			continue
		}
		byFinal[final.ApproverID] = len(resolved)
		resolved = append(resolved, final)
	}

	return resolved, nil
}
