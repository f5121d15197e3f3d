package approval

import (
	"errors"
	"time"
)

// DecisionDTO is the request payload for deciding an instance.
type DecisionDTO struct {
	Decision string  `json:"decision" validate:"required,oneof=approved rejected"`
	Comment  *string `json:"comment,omitempty"`
}

func (dto DecisionDTO) Validate() error {
	if dto.Decision == "" {
		return errors.New("decision is required")
	}
	if dto.Decision != DecisionApproved && dto.Decision != DecisionRejected {
		return errors.New("decision must be either 'approved' or 'rejected'")
	}
	if dto.Decision == DecisionRejected && (dto.Comment == nil || *dto.Comment == "") {
		return errors.New("comment is required when rejecting")
	}
	return nil
}

// WorkflowView is the workflow with instances grouped per level, the
// shape the UI renders (level_type drives visual grouping only).
type WorkflowView struct {
	Workflow *Workflow   `json:"workflow"`
	Levels   []LevelView `json:"levels"`
}

type LevelView struct {
	LevelOrder int         `json:"level_order"`
	Instances  []*Instance `json:"instances"`
}

// NewWorkflowView groups instances by level order, ascending.
func NewWorkflowView(workflow *Workflow, instances []*Instance) *WorkflowView {
	byOrder := make(map[int][]*Instance)
	var orders []int
	for _, inst := range instances {
		if _, ok := byOrder[inst.LevelOrder]; !ok {
			orders = append(orders, inst.LevelOrder)
		}
		byOrder[inst.LevelOrder] = append(byOrder[inst.LevelOrder], inst)
	}
	for i := 0; i < len(orders); i++ {
		for j := i + 1; j < len(orders); j++ {
			if orders[j] < orders[i] {
				orders[i], orders[j] = orders[j], orders[i]
			}
		}
	}

	view := &WorkflowView{Workflow: workflow}
	for _, order := range orders {
		view.Levels = append(view.Levels, LevelView{
			LevelOrder: order,
			Instances:  byOrder[order],
		})
	}
	return view
}

// PendingInstanceView is one row of an approver's inbox.
type PendingInstanceView struct {
	InstanceID    int64     `json:"instance_id"`
	WorkflowID    int64     `json:"workflow_id"`
	LevelOrder    int       `json:"level_order"`
	DelegatedFrom *int64    `json:"delegated_from,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
