package approval

import "time"

// ApprovalRule selects which documents it applies to and carries the
// ordered approval levels. Rules referenced by a workflow are treated
// as immutable; edits only affect workflows started afterwards.
type ApprovalRule struct {
	ID           int64           `gorm:"primaryKey"`
	TenantID     int64           `gorm:"column:tenant_id;not null;index"`
	Name         string          `gorm:"column:name;not null"`
	DocumentType string          `gorm:"column:document_type;not null;index"`
	MinAmount    *int64          `gorm:"column:min_amount"`
	MaxAmount    *int64          `gorm:"column:max_amount"`
	Category     *string         `gorm:"column:category"`
	IsActive     bool            `gorm:"column:is_active;default:true"`
	Levels       []ApprovalLevel `gorm:"foreignKey:RuleID"`
	CreatedAt    time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;default:now()"`
}

type ApprovalLevel struct {
	ID         int64          `gorm:"primaryKey"`
	RuleID     int64          `gorm:"column:rule_id;not null;index"`
	LevelOrder int            `gorm:"column:level_order;not null"`
	Mode       string         `gorm:"column:mode;not null"`
	LevelType  string         `gorm:"column:level_type;default:general"`
	Approvers  []ApproverSpec `gorm:"foreignKey:LevelID"`
	CreatedAt  time.Time      `gorm:"column:created_at;default:now()"`
}

// ApproverSpec is either a fixed user reference or a role reference
// resolved to the role's active members at level activation time.
type ApproverSpec struct {
	ID       int64  `gorm:"primaryKey"`
	LevelID  int64  `gorm:"column:level_id;not null;index"`
	SpecType string `gorm:"column:spec_type;not null"`
	UserID   *int64 `gorm:"column:user_id"`
	RoleID   *int64 `gorm:"column:role_id"`
}

// ApprovalWorkflow is the per-document execution of a rule.
type ApprovalWorkflow struct {
	ID                int64      `gorm:"primaryKey"`
	TenantID          int64      `gorm:"column:tenant_id;not null;index"`
	DocumentID        int64      `gorm:"column:document_id;not null;index"`
	RuleID            int64      `gorm:"column:rule_id;not null"`
	Status            string     `gorm:"column:status;default:pending"`
	CurrentLevelOrder *int       `gorm:"column:current_level_order"`
	CompletedAt       *time.Time `gorm:"column:completed_at"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// ApprovalInstance is one resolved approver's vote at one level.
// Exactly one row exists per (workflow, level, resolved approver).
type ApprovalInstance struct {
	ID            int64      `gorm:"primaryKey"`
	WorkflowID    int64      `gorm:"column:workflow_id;not null;index"`
	LevelID       int64      `gorm:"column:level_id;not null"`
	LevelOrder    int        `gorm:"column:level_order;not null;index"`
	ApproverID    int64      `gorm:"column:approver_id;not null;index"`
	DelegatedFrom *int64     `gorm:"column:delegated_from"`
	Decision      string     `gorm:"column:decision;default:pending"`
	Comment       *string    `gorm:"column:comment"`
	DecidedAt     *time.Time `gorm:"column:decided_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (ApprovalRule) TableName() string     { return "approval_rules" }
func (ApprovalLevel) TableName() string    { return "approval_levels" }
func (ApproverSpec) TableName() string     { return "approver_specs" }
func (ApprovalWorkflow) TableName() string { return "approval_workflows" }
func (ApprovalInstance) TableName() string { return "approval_instances" }
