package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/approval"
	approvalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/approval"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApprovalRepository implements approval.Repository using GORM.
type ApprovalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) approval.Repository {
	return &ApprovalRepository{db: db}
}

// InTransaction runs fn against a repository bound to one database
// transaction. The decision path relies on this plus the FOR UPDATE
// read in GetWorkflowByIDForUpdate to serialize concurrent quorum
// evaluation on the same workflow.
func (r *ApprovalRepository) InTransaction(fn func(approval.Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&ApprovalRepository{db: tx})
	})
}

// CreateWorkflow persists a new workflow. The partial unique index on
// (document_id) over live statuses backstops the in-transaction
// duplicate check: when two starts race, the loser's insert trips the
// index and is reported as ErrDuplicateWorkflow, not a driver error.
func (r *ApprovalRepository) CreateWorkflow(wf *approval.Workflow) error {
	m := approval.WorkflowToDataModel(wf)
	if err := r.db.Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return internal.ErrDuplicateWorkflow
		}
		return err
	}
	*wf = *approval.WorkflowFromDataModel(m)
	return nil
}

func (r *ApprovalRepository) GetWorkflowByID(id int64) (*approval.Workflow, error) {
	var m approvalDatamodel.ApprovalWorkflow
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return approval.WorkflowFromDataModel(&m), nil
}

// GetWorkflowByIDForUpdate locks the workflow row for the current
// transaction. The decision path takes this lock before evaluating
// quorum so sibling reads never see a stale snapshot.
func (r *ApprovalRepository) GetWorkflowByIDForUpdate(id int64) (*approval.Workflow, error) {
	var m approvalDatamodel.ApprovalWorkflow
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return approval.WorkflowFromDataModel(&m), nil
}

// GetWorkflowByDocumentID returns the newest workflow for a document,
// or nil when none exists.
func (r *ApprovalRepository) GetWorkflowByDocumentID(documentID int64) (*approval.Workflow, error) {
	var m approvalDatamodel.ApprovalWorkflow
	err := r.db.Where("document_id = ?", documentID).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return approval.WorkflowFromDataModel(&m), nil
}

func (r *ApprovalRepository) UpdateWorkflow(wf *approval.Workflow) error {
	return r.db.Model(&approvalDatamodel.ApprovalWorkflow{}).
		Where("id = ?", wf.ID).
		Updates(map[string]interface{}{
			"status":              wf.Status,
			"current_level_order": wf.CurrentLevelOrder,
			"completed_at":        wf.CompletedAt,
			"updated_at":          time.Now(),
		}).Error
}

func (r *ApprovalRepository) GetRuleWithLevels(ruleID int64) (*approval.Rule, error) {
	var m approvalDatamodel.ApprovalRule
	err := r.db.
		Preload("Levels", func(db *gorm.DB) *gorm.DB {
			return db.Order("level_order ASC")
		}).
		Preload("Levels.Approvers").
		Where("id = ?", ruleID).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return approval.RuleFromDataModel(&m), nil
}

func (r *ApprovalRepository) CreateInstances(instances []*approval.Instance) error {
	if len(instances) == 0 {
		return nil
	}
	models := make([]*approvalDatamodel.ApprovalInstance, len(instances))
	for i, inst := range instances {
		models[i] = approval.InstanceToDataModel(inst)
	}
	if err := r.db.Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*instances[i] = *approval.InstanceFromDataModel(m)
	}
	return nil
}

func (r *ApprovalRepository) GetInstanceByID(id int64) (*approval.Instance, error) {
	var m approvalDatamodel.ApprovalInstance
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return approval.InstanceFromDataModel(&m), nil
}

func (r *ApprovalRepository) GetInstanceByIDForUpdate(id int64) (*approval.Instance, error) {
	var m approvalDatamodel.ApprovalInstance
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return approval.InstanceFromDataModel(&m), nil
}

func (r *ApprovalRepository) GetInstancesForLevel(workflowID int64, levelOrder int) ([]*approval.Instance, error) {
	var models []*approvalDatamodel.ApprovalInstance
	err := r.db.Where("workflow_id = ? AND level_order = ?", workflowID, levelOrder).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return instancesFromDataModels(models), nil
}

func (r *ApprovalRepository) GetInstancesForWorkflow(workflowID int64) ([]*approval.Instance, error) {
	var models []*approvalDatamodel.ApprovalInstance
	err := r.db.Where("workflow_id = ?", workflowID).
		Order("level_order ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return instancesFromDataModels(models), nil
}

// GetPendingInstancesForApprover lists an approver's inbox across
// workflows, oldest first, restricted to levels currently awaiting
// decisions.
func (r *ApprovalRepository) GetPendingInstancesForApprover(approverID int64, limit, offset int) ([]*approval.Instance, error) {
	var models []*approvalDatamodel.ApprovalInstance
	err := r.db.
		Joins("JOIN approval_workflows ON approval_workflows.id = approval_instances.workflow_id").
		Where("approval_instances.approver_id = ? AND approval_instances.decision = ?", approverID, approval.DecisionPending).
		Where("approval_workflows.status = ?", approval.WorkflowStatusInProgress).
		Where("approval_workflows.current_level_order = approval_instances.level_order").
		Order("approval_instances.created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return instancesFromDataModels(models), nil
}

func (r *ApprovalRepository) UpdateInstanceDecision(id int64, decision string, comment *string, decidedAt time.Time) error {
	return r.db.Model(&approvalDatamodel.ApprovalInstance{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"decision":   decision,
			"comment":    comment,
			"decided_at": decidedAt,
		}).Error
}

func (r *ApprovalRepository) SkipPendingInstancesAtLevel(workflowID int64, levelOrder int) error {
	return r.db.Model(&approvalDatamodel.ApprovalInstance{}).
		Where("workflow_id = ? AND level_order = ? AND decision = ?", workflowID, levelOrder, approval.DecisionPending).
		Update("decision", approval.DecisionSkipped).Error
}

func (r *ApprovalRepository) SkipPendingInstances(workflowID int64) error {
	return r.db.Model(&approvalDatamodel.ApprovalInstance{}).
		Where("workflow_id = ? AND decision = ?", workflowID, approval.DecisionPending).
		Update("decision", approval.DecisionSkipped).Error
}

// isUniqueViolation recognizes unique-constraint errors from pgx
// (SQLSTATE 23505) and from the SQLite driver the repository specs run
// against.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func instancesFromDataModels(models []*approvalDatamodel.ApprovalInstance) []*approval.Instance {
	result := make([]*approval.Instance, len(models))
	for i, m := range models {
		result[i] = approval.InstanceFromDataModel(m)
	}
	return result
}
