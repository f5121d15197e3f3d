package rule

import (
	"errors"
	"fmt"

	"github.com/frahmantamala/procurement-portal/internal/approval"
)

// CreateRuleDTO is the request payload for configuring an approval
// rule with its full level chain.
type CreateRuleDTO struct {
	Name         string           `json:"name" validate:"required"`
	DocumentType string           `json:"document_type" validate:"required"`
	MinAmount    *int64           `json:"min_amount,omitempty"`
	MaxAmount    *int64           `json:"max_amount,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Levels       []CreateLevelDTO `json:"levels" validate:"required,min=1"`
}

type CreateLevelDTO struct {
	LevelOrder int               `json:"level_order"`
	Mode       string            `json:"mode" validate:"required,oneof=any all"`
	LevelType  string            `json:"level_type"`
	Approvers  []ApproverSpecDTO `json:"approvers"`
}

type ApproverSpecDTO struct {
	SpecType string `json:"spec_type" validate:"required,oneof=user role"`
	UserID   *int64 `json:"user_id,omitempty"`
	RoleID   *int64 `json:"role_id,omitempty"`
}

func (dto CreateRuleDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.DocumentType == "" {
		return errors.New("document_type is required")
	}
	if dto.MinAmount != nil && *dto.MinAmount < 0 {
		return errors.New("min_amount cannot be negative")
	}
	if dto.MinAmount != nil && dto.MaxAmount != nil && *dto.MinAmount > *dto.MaxAmount {
		return errors.New("min_amount cannot exceed max_amount")
	}
	if len(dto.Levels) == 0 {
		return errors.New("at least one approval level is required")
	}

	seenOrders := make(map[int]bool)
	for i, level := range dto.Levels {
		if level.Mode != approval.ModeAny && level.Mode != approval.ModeAll {
			return fmt.Errorf("levels[%d]: mode must be any or all", i)
		}
		if level.LevelType != "" &&
			level.LevelType != approval.LevelTypeGeneral &&
			level.LevelType != approval.LevelTypeSpecifications {
			return fmt.Errorf("levels[%d]: level_type must be general or specifications", i)
		}
		if seenOrders[level.LevelOrder] {
			return fmt.Errorf("levels[%d]: duplicate level_order %d", i, level.LevelOrder)
		}
		seenOrders[level.LevelOrder] = true

		for j, spec := range level.Approvers {
			switch spec.SpecType {
			case approval.SpecTypeUser:
				if spec.UserID == nil {
					return fmt.Errorf("levels[%d].approvers[%d]: user_id is required for user specs", i, j)
				}
			case approval.SpecTypeRole:
				if spec.RoleID == nil {
					return fmt.Errorf("levels[%d].approvers[%d]: role_id is required for role specs", i, j)
				}
			default:
				return fmt.Errorf("levels[%d].approvers[%d]: spec_type must be user or role", i, j)
			}
		}
	}
	return nil
}

// UpdateRuleDTO carries partial rule metadata updates. Level chains
// are replaced wholesale when provided.
type UpdateRuleDTO struct {
	Name      *string           `json:"name,omitempty"`
	MinAmount *int64            `json:"min_amount,omitempty"`
	MaxAmount *int64            `json:"max_amount,omitempty"`
	Category  *string           `json:"category,omitempty"`
	IsActive  *bool             `json:"is_active,omitempty"`
	Levels    *[]CreateLevelDTO `json:"levels,omitempty"`
}
