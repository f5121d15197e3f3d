package approval

import (
	"time"

	approvalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/approval"
)

// Workflow statuses. Pending is transient: a workflow moves to
// in_progress as soon as its first level is materialized.
const (
	WorkflowStatusPending    = "pending"
	WorkflowStatusInProgress = "in_progress"
	WorkflowStatusApproved   = "approved"
	WorkflowStatusRejected   = "rejected"
	WorkflowStatusCancelled  = "cancelled"
)

// Instance decisions.
const (
	DecisionPending  = "pending"
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
	DecisionSkipped  = "skipped"
)

// Level quorum modes.
const (
	ModeAny = "any"
	ModeAll = "all"
)

// Level types, a UI grouping tag only; evaluation ignores it.
const (
	LevelTypeGeneral        = "general"
	LevelTypeSpecifications = "specifications"
)

// Approver spec types.
const (
	SpecTypeUser = "user"
	SpecTypeRole = "role"
)

type Workflow struct {
	ID                int64      `json:"id"`
	TenantID          int64      `json:"tenant_id"`
	DocumentID        int64      `json:"document_id"`
	RuleID            int64      `json:"rule_id"`
	Status            string     `json:"status"`
	CurrentLevelOrder *int       `json:"current_level_order,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (w *Workflow) IsTerminal() bool {
	switch w.Status {
	case WorkflowStatusApproved, WorkflowStatusRejected, WorkflowStatusCancelled:
		return true
	}
	return false
}

func (w *Workflow) CanBeCancelled() bool {
	return w.Status == WorkflowStatusPending || w.Status == WorkflowStatusInProgress
}

type Instance struct {
	ID            int64      `json:"id"`
	WorkflowID    int64      `json:"workflow_id"`
	LevelID       int64      `json:"level_id"`
	LevelOrder    int        `json:"level_order"`
	ApproverID    int64      `json:"approver_id"`
	DelegatedFrom *int64     `json:"delegated_from,omitempty"`
	Decision      string     `json:"decision"`
	Comment       *string    `json:"comment,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (i *Instance) IsDecided() bool {
	return i.Decision != DecisionPending
}

type Rule struct {
	ID           int64     `json:"id"`
	TenantID     int64     `json:"tenant_id"`
	Name         string    `json:"name"`
	DocumentType string    `json:"document_type"`
	MinAmount    *int64    `json:"min_amount,omitempty"`
	MaxAmount    *int64    `json:"max_amount,omitempty"`
	Category     *string   `json:"category,omitempty"`
	IsActive     bool      `json:"is_active"`
	Levels       []Level   `json:"levels"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Matches reports whether this rule applies to a document of the given
// type, amount and category. Nil bounds are open-ended; a nil rule
// category matches any document category.
func (r *Rule) Matches(docType string, amount int64, category string) bool {
	if !r.IsActive || r.DocumentType != docType {
		return false
	}
	if r.MinAmount != nil && amount < *r.MinAmount {
		return false
	}
	if r.MaxAmount != nil && amount > *r.MaxAmount {
		return false
	}
	if r.Category != nil && *r.Category != category {
		return false
	}
	return true
}

// MaxLevelOrder returns the highest level order, or 0 for a rule
// without levels.
func (r *Rule) MaxLevelOrder() int {
	max := 0
	for _, l := range r.Levels {
		if l.LevelOrder > max {
			max = l.LevelOrder
		}
	}
	return max
}

type Level struct {
	ID         int64          `json:"id"`
	RuleID     int64          `json:"rule_id"`
	LevelOrder int            `json:"level_order"`
	Mode       string         `json:"mode"`
	LevelType  string         `json:"level_type"`
	Approvers  []ApproverSpec `json:"approvers"`
	CreatedAt  time.Time      `json:"created_at"`
}

type ApproverSpec struct {
	ID       int64  `json:"id"`
	LevelID  int64  `json:"level_id"`
	SpecType string `json:"spec_type"`
	UserID   *int64 `json:"user_id,omitempty"`
	RoleID   *int64 `json:"role_id,omitempty"`
}

func WorkflowToDataModel(w *Workflow) *approvalDatamodel.ApprovalWorkflow {
	return &approvalDatamodel.ApprovalWorkflow{
		ID:                w.ID,
		TenantID:          w.TenantID,
		DocumentID:        w.DocumentID,
		RuleID:            w.RuleID,
		Status:            w.Status,
		CurrentLevelOrder: w.CurrentLevelOrder,
		CompletedAt:       w.CompletedAt,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

func WorkflowFromDataModel(m *approvalDatamodel.ApprovalWorkflow) *Workflow {
	return &Workflow{
		ID:                m.ID,
		TenantID:          m.TenantID,
		DocumentID:        m.DocumentID,
		RuleID:            m.RuleID,
		Status:            m.Status,
		CurrentLevelOrder: m.CurrentLevelOrder,
		CompletedAt:       m.CompletedAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func InstanceToDataModel(i *Instance) *approvalDatamodel.ApprovalInstance {
	return &approvalDatamodel.ApprovalInstance{
		ID:            i.ID,
		WorkflowID:    i.WorkflowID,
		LevelID:       i.LevelID,
		LevelOrder:    i.LevelOrder,
		ApproverID:    i.ApproverID,
		DelegatedFrom: i.DelegatedFrom,
		Decision:      i.Decision,
		Comment:       i.Comment,
		DecidedAt:     i.DecidedAt,
		CreatedAt:     i.CreatedAt,
	}
}

func InstanceFromDataModel(m *approvalDatamodel.ApprovalInstance) *Instance {
	return &Instance{
		ID:            m.ID,
		WorkflowID:    m.WorkflowID,
		LevelID:       m.LevelID,
		LevelOrder:    m.LevelOrder,
		ApproverID:    m.ApproverID,
		DelegatedFrom: m.DelegatedFrom,
		Decision:      m.Decision,
		Comment:       m.Comment,
		DecidedAt:     m.DecidedAt,
		CreatedAt:     m.CreatedAt,
	}
}

func RuleFromDataModel(m *approvalDatamodel.ApprovalRule) *Rule {
	r := &Rule{
		ID:           m.ID,
		TenantID:     m.TenantID,
		Name:         m.Name,
		DocumentType: m.DocumentType,
		MinAmount:    m.MinAmount,
		MaxAmount:    m.MaxAmount,
		Category:     m.Category,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	for _, l := range m.Levels {
		r.Levels = append(r.Levels, LevelFromDataModel(&l))
	}
	return r
}

func LevelFromDataModel(m *approvalDatamodel.ApprovalLevel) Level {
	l := Level{
		ID:         m.ID,
		RuleID:     m.RuleID,
		LevelOrder: m.LevelOrder,
		Mode:       m.Mode,
		LevelType:  m.LevelType,
		CreatedAt:  m.CreatedAt,
	}
	for _, a := range m.Approvers {
		l.Approvers = append(l.Approvers, ApproverSpec{
			ID:       a.ID,
			LevelID:  a.LevelID,
			SpecType: a.SpecType,
			UserID:   a.UserID,
			RoleID:   a.RoleID,
		})
	}
	return l
}

func RuleToDataModel(r *Rule) *approvalDatamodel.ApprovalRule {
	m := &approvalDatamodel.ApprovalRule{
		ID:           r.ID,
		TenantID:     r.TenantID,
		Name:         r.Name,
		DocumentType: r.DocumentType,
		MinAmount:    r.MinAmount,
		MaxAmount:    r.MaxAmount,
		Category:     r.Category,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	for _, l := range r.Levels {
		lm := approvalDatamodel.ApprovalLevel{
			ID:         l.ID,
			RuleID:     l.RuleID,
			LevelOrder: l.LevelOrder,
			Mode:       l.Mode,
			LevelType:  l.LevelType,
			CreatedAt:  l.CreatedAt,
		}
		for _, a := range l.Approvers {
			lm.Approvers = append(lm.Approvers, approvalDatamodel.ApproverSpec{
				ID:       a.ID,
				LevelID:  a.LevelID,
				SpecType: a.SpecType,
				UserID:   a.UserID,
				RoleID:   a.RoleID,
			})
		}
		m.Levels = append(m.Levels, lm)
	}
	return m
}
