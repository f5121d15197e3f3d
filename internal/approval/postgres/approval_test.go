package postgres_test

import (
	"errors"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/approval"
	approvalPostgres "github.com/frahmantamala/procurement-portal/internal/approval/postgres"
)

func TestApprovalPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Approval Postgres Suite")
}

// SQLite-compatible models for testing
type SQLiteRule struct {
	ID           int64     `gorm:"primaryKey"`
	TenantID     int64     `gorm:"column:tenant_id;not null"`
	Name         string    `gorm:"column:name;not null"`
	DocumentType string    `gorm:"column:document_type;not null"`
	MinAmount    *int64    `gorm:"column:min_amount"`
	MaxAmount    *int64    `gorm:"column:max_amount"`
	Category     *string   `gorm:"column:category"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SQLiteRule) TableName() string { return "approval_rules" }

type SQLiteLevel struct {
	ID         int64     `gorm:"primaryKey"`
	RuleID     int64     `gorm:"column:rule_id;not null"`
	LevelOrder int       `gorm:"column:level_order;not null"`
	Mode       string    `gorm:"column:mode;not null"`
	LevelType  string    `gorm:"column:level_type;default:general"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (SQLiteLevel) TableName() string { return "approval_levels" }

type SQLiteApproverSpec struct {
	ID       int64  `gorm:"primaryKey"`
	LevelID  int64  `gorm:"column:level_id;not null"`
	SpecType string `gorm:"column:spec_type;not null"`
	UserID   *int64 `gorm:"column:user_id"`
	RoleID   *int64 `gorm:"column:role_id"`
}

func (SQLiteApproverSpec) TableName() string { return "approver_specs" }

type SQLiteWorkflow struct {
	ID                int64      `gorm:"primaryKey"`
	TenantID          int64      `gorm:"column:tenant_id;not null"`
	DocumentID        int64      `gorm:"column:document_id;not null"`
	RuleID            int64      `gorm:"column:rule_id;not null"`
	Status            string     `gorm:"column:status;default:pending"`
	CurrentLevelOrder *int       `gorm:"column:current_level_order"`
	CompletedAt       *time.Time `gorm:"column:completed_at"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (SQLiteWorkflow) TableName() string { return "approval_workflows" }

type SQLiteInstance struct {
	ID            int64      `gorm:"primaryKey"`
	WorkflowID    int64      `gorm:"column:workflow_id;not null"`
	LevelID       int64      `gorm:"column:level_id;not null"`
	LevelOrder    int        `gorm:"column:level_order;not null"`
	ApproverID    int64      `gorm:"column:approver_id;not null"`
	DelegatedFrom *int64     `gorm:"column:delegated_from"`
	Decision      string     `gorm:"column:decision;default:pending"`
	Comment       *string    `gorm:"column:comment"`
	DecidedAt     *time.Time `gorm:"column:decided_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (SQLiteInstance) TableName() string { return "approval_instances" }

var _ = Describe("Approval PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo approval.Repository
	)

	tenantID := int64(1)

	newWorkflow := func(documentID int64) *approval.Workflow {
		return &approval.Workflow{
			TenantID:   tenantID,
			DocumentID: documentID,
			RuleID:     1,
			Status:     approval.WorkflowStatusPending,
		}
	}

	pendingInstance := func(workflowID int64, levelOrder int, approverID int64) *approval.Instance {
		return &approval.Instance{
			WorkflowID: workflowID,
			LevelID:    int64(levelOrder),
			LevelOrder: levelOrder,
			ApproverID: approverID,
			Decision:   approval.DecisionPending,
		}
	}

	BeforeEach(func() {
		var err error
		// Use SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&SQLiteRule{},
			&SQLiteLevel{},
			&SQLiteApproverSpec{},
			&SQLiteWorkflow{},
			&SQLiteInstance{},
		)
		Expect(err).NotTo(HaveOccurred())

		// same partial unique index the migrations create: at most one
		// live workflow per document
		err = db.Exec(`CREATE UNIQUE INDEX idx_approval_workflows_active_document
			ON approval_workflows (document_id)
			WHERE status IN ('pending', 'in_progress')`).Error
		Expect(err).NotTo(HaveOccurred())

		repo = approvalPostgres.NewApprovalRepository(db)
	})

	Describe("Workflows", func() {
		It("should create a workflow and fill generated fields", func() {
			wf := newWorkflow(10)

			err := repo.CreateWorkflow(wf)
			Expect(err).NotTo(HaveOccurred())
			Expect(wf.ID).To(BeNumerically(">", 0))
			Expect(wf.CreatedAt).NotTo(BeZero())
		})

		It("should return the newest workflow for a document", func() {
			older := newWorkflow(10)
			Expect(repo.CreateWorkflow(older)).To(Succeed())
			Expect(db.Model(&SQLiteWorkflow{}).Where("id = ?", older.ID).
				Updates(map[string]interface{}{
					"status":     approval.WorkflowStatusCancelled,
					"created_at": time.Now().Add(-time.Hour),
				}).Error).To(Succeed())

			newer := newWorkflow(10)
			Expect(repo.CreateWorkflow(newer)).To(Succeed())

			result, err := repo.GetWorkflowByDocumentID(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ID).To(Equal(newer.ID))
		})

		It("should report a racing duplicate insert as a duplicate workflow", func() {
			Expect(repo.CreateWorkflow(newWorkflow(10))).To(Succeed())

			err := repo.CreateWorkflow(newWorkflow(10))
			Expect(err).To(Equal(internal.ErrDuplicateWorkflow))
		})

		It("should allow a new workflow once the previous one is terminal", func() {
			wf := newWorkflow(10)
			Expect(repo.CreateWorkflow(wf)).To(Succeed())

			wf.Status = approval.WorkflowStatusCancelled
			Expect(repo.UpdateWorkflow(wf)).To(Succeed())

			Expect(repo.CreateWorkflow(newWorkflow(10))).To(Succeed())
		})

		It("should return nil when a document has no workflow", func() {
			result, err := repo.GetWorkflowByDocumentID(999)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeNil())
		})

		It("should update status, level pointer and completion time", func() {
			wf := newWorkflow(10)
			Expect(repo.CreateWorkflow(wf)).To(Succeed())

			two := 2
			now := time.Now()
			wf.Status = approval.WorkflowStatusApproved
			wf.CurrentLevelOrder = &two
			wf.CompletedAt = &now
			Expect(repo.UpdateWorkflow(wf)).To(Succeed())

			stored, err := repo.GetWorkflowByID(wf.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(approval.WorkflowStatusApproved))
			Expect(*stored.CurrentLevelOrder).To(Equal(2))
			Expect(stored.CompletedAt).NotTo(BeNil())
		})
	})

	Describe("GetRuleWithLevels", func() {
		BeforeEach(func() {
			Expect(db.Create(&SQLiteRule{ID: 1, TenantID: tenantID, Name: "PO over 10jt", DocumentType: "purchase_order", IsActive: true}).Error).To(Succeed())
			// insert out of order to exercise the level_order sort
			Expect(db.Create(&SQLiteLevel{ID: 2, RuleID: 1, LevelOrder: 2, Mode: approval.ModeAll}).Error).To(Succeed())
			Expect(db.Create(&SQLiteLevel{ID: 1, RuleID: 1, LevelOrder: 1, Mode: approval.ModeAny}).Error).To(Succeed())
			roleID := int64(5)
			userID := int64(7)
			Expect(db.Create(&SQLiteApproverSpec{LevelID: 1, SpecType: approval.SpecTypeRole, RoleID: &roleID}).Error).To(Succeed())
			Expect(db.Create(&SQLiteApproverSpec{LevelID: 2, SpecType: approval.SpecTypeUser, UserID: &userID}).Error).To(Succeed())
		})

		It("should load levels ordered with their approver specs", func() {
			rule, err := repo.GetRuleWithLevels(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rule).NotTo(BeNil())
			Expect(rule.Levels).To(HaveLen(2))
			Expect(rule.Levels[0].LevelOrder).To(Equal(1))
			Expect(rule.Levels[0].Mode).To(Equal(approval.ModeAny))
			Expect(rule.Levels[0].Approvers).To(HaveLen(1))
			Expect(*rule.Levels[0].Approvers[0].RoleID).To(Equal(int64(5)))
			Expect(rule.Levels[1].LevelOrder).To(Equal(2))
			Expect(*rule.Levels[1].Approvers[0].UserID).To(Equal(int64(7)))
		})

		It("should return nil for an unknown rule", func() {
			rule, err := repo.GetRuleWithLevels(999)
			Expect(err).NotTo(HaveOccurred())
			Expect(rule).To(BeNil())
		})
	})

	Describe("Instances", func() {
		var wf *approval.Workflow

		BeforeEach(func() {
			wf = newWorkflow(10)
			Expect(repo.CreateWorkflow(wf)).To(Succeed())
			one := 1
			wf.Status = approval.WorkflowStatusInProgress
			wf.CurrentLevelOrder = &one
			Expect(repo.UpdateWorkflow(wf)).To(Succeed())
		})

		It("should create a batch and fill IDs", func() {
			instances := []*approval.Instance{
				pendingInstance(wf.ID, 1, 20),
				pendingInstance(wf.ID, 1, 21),
			}

			err := repo.CreateInstances(instances)
			Expect(err).NotTo(HaveOccurred())
			Expect(instances[0].ID).To(BeNumerically(">", 0))
			Expect(instances[1].ID).To(BeNumerically(">", instances[0].ID))
		})

		It("should accept an empty batch", func() {
			Expect(repo.CreateInstances(nil)).To(Succeed())
		})

		It("should list instances for one level only", func() {
			Expect(repo.CreateInstances([]*approval.Instance{
				pendingInstance(wf.ID, 1, 20),
				pendingInstance(wf.ID, 2, 30),
			})).To(Succeed())

			result, err := repo.GetInstancesForLevel(wf.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(1))
			Expect(result[0].ApproverID).To(Equal(int64(20)))
		})

		It("should record a decision with comment and timestamp", func() {
			instances := []*approval.Instance{pendingInstance(wf.ID, 1, 20)}
			Expect(repo.CreateInstances(instances)).To(Succeed())

			comment := "looks good"
			err := repo.UpdateInstanceDecision(instances[0].ID, approval.DecisionApproved, &comment, time.Now())
			Expect(err).NotTo(HaveOccurred())

			stored, err := repo.GetInstanceByID(instances[0].ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Decision).To(Equal(approval.DecisionApproved))
			Expect(*stored.Comment).To(Equal("looks good"))
			Expect(stored.DecidedAt).NotTo(BeNil())
		})

		It("should skip only pending instances at one level", func() {
			instances := []*approval.Instance{
				pendingInstance(wf.ID, 1, 20),
				pendingInstance(wf.ID, 1, 21),
				pendingInstance(wf.ID, 2, 30),
			}
			Expect(repo.CreateInstances(instances)).To(Succeed())
			Expect(repo.UpdateInstanceDecision(instances[0].ID, approval.DecisionApproved, nil, time.Now())).To(Succeed())

			Expect(repo.SkipPendingInstancesAtLevel(wf.ID, 1)).To(Succeed())

			all, err := repo.GetInstancesForWorkflow(wf.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(all[0].Decision).To(Equal(approval.DecisionApproved))
			Expect(all[1].Decision).To(Equal(approval.DecisionSkipped))
			Expect(all[2].Decision).To(Equal(approval.DecisionPending))
		})

		It("should skip every pending instance on cancellation", func() {
			instances := []*approval.Instance{
				pendingInstance(wf.ID, 1, 20),
				pendingInstance(wf.ID, 2, 30),
			}
			Expect(repo.CreateInstances(instances)).To(Succeed())

			Expect(repo.SkipPendingInstances(wf.ID)).To(Succeed())

			all, err := repo.GetInstancesForWorkflow(wf.ID)
			Expect(err).NotTo(HaveOccurred())
			for _, inst := range all {
				Expect(inst.Decision).To(Equal(approval.DecisionSkipped))
			}
		})
	})

	Describe("GetPendingInstancesForApprover", func() {
		It("should restrict the inbox to the workflow's current level", func() {
			wf := newWorkflow(10)
			Expect(repo.CreateWorkflow(wf)).To(Succeed())
			one := 1
			wf.Status = approval.WorkflowStatusInProgress
			wf.CurrentLevelOrder = &one
			Expect(repo.UpdateWorkflow(wf)).To(Succeed())

			Expect(repo.CreateInstances([]*approval.Instance{
				pendingInstance(wf.ID, 1, 20),
				pendingInstance(wf.ID, 2, 20),
			})).To(Succeed())

			result, err := repo.GetPendingInstancesForApprover(20, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(1))
			Expect(result[0].LevelOrder).To(Equal(1))
		})

		It("should exclude terminal workflows", func() {
			wf := newWorkflow(10)
			Expect(repo.CreateWorkflow(wf)).To(Succeed())
			one := 1
			wf.Status = approval.WorkflowStatusCancelled
			wf.CurrentLevelOrder = &one
			Expect(repo.UpdateWorkflow(wf)).To(Succeed())

			Expect(repo.CreateInstances([]*approval.Instance{
				pendingInstance(wf.ID, 1, 20),
			})).To(Succeed())

			result, err := repo.GetPendingInstancesForApprover(20, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeEmpty())
		})

		It("should exclude decided instances", func() {
			wf := newWorkflow(10)
			Expect(repo.CreateWorkflow(wf)).To(Succeed())
			one := 1
			wf.Status = approval.WorkflowStatusInProgress
			wf.CurrentLevelOrder = &one
			Expect(repo.UpdateWorkflow(wf)).To(Succeed())

			instances := []*approval.Instance{pendingInstance(wf.ID, 1, 20)}
			Expect(repo.CreateInstances(instances)).To(Succeed())
			Expect(repo.UpdateInstanceDecision(instances[0].ID, approval.DecisionApproved, nil, time.Now())).To(Succeed())

			result, err := repo.GetPendingInstancesForApprover(20, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeEmpty())
		})
	})

	Describe("InTransaction", func() {
		It("should roll everything back when the function fails", func() {
			err := repo.InTransaction(func(tx approval.Repository) error {
				if err := tx.CreateWorkflow(newWorkflow(10)); err != nil {
					return err
				}
				return errors.New("boom")
			})
			Expect(err).To(HaveOccurred())

			result, lookupErr := repo.GetWorkflowByDocumentID(10)
			Expect(lookupErr).NotTo(HaveOccurred())
			Expect(result).To(BeNil())
		})

		It("should commit when the function succeeds", func() {
			err := repo.InTransaction(func(tx approval.Repository) error {
				return tx.CreateWorkflow(newWorkflow(10))
			})
			Expect(err).NotTo(HaveOccurred())

			result, lookupErr := repo.GetWorkflowByDocumentID(10)
			Expect(lookupErr).NotTo(HaveOccurred())
			Expect(result).NotTo(BeNil())
		})
	})
})
