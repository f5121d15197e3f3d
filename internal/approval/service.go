package approval

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/core/events"
)

// EventPublisher makes workflow transitions observable; delivery is
// the notification dispatcher's concern.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Repository defines the data access methods for workflows and
// instances. InTransaction must hand the callback a repository bound
// to one database transaction, and GetWorkflowByIDForUpdate must lock
// the workflow row for that transaction: the decision path takes the
// workflow lock before reading quorum state, so concurrent decisions
// on one workflow serialize instead of each evaluating quorum against
// a snapshot that misses the other's write.
type Repository interface {
	CreateWorkflow(wf *Workflow) error
	GetWorkflowByID(id int64) (*Workflow, error)
	GetWorkflowByIDForUpdate(id int64) (*Workflow, error)
	GetWorkflowByDocumentID(documentID int64) (*Workflow, error)
	UpdateWorkflow(wf *Workflow) error

	GetRuleWithLevels(ruleID int64) (*Rule, error)

	CreateInstances(instances []*Instance) error
	GetInstanceByID(id int64) (*Instance, error)
	GetInstanceByIDForUpdate(id int64) (*Instance, error)
	GetInstancesForLevel(workflowID int64, levelOrder int) ([]*Instance, error)
	GetInstancesForWorkflow(workflowID int64) ([]*Instance, error)
	GetPendingInstancesForApprover(approverID int64, limit, offset int) ([]*Instance, error)
	UpdateInstanceDecision(id int64, decision string, comment *string, decidedAt time.Time) error
	SkipPendingInstancesAtLevel(workflowID int64, levelOrder int) error
	SkipPendingInstances(workflowID int64) error

	InTransaction(fn func(Repository) error) error
}

// DocumentRef identifies the document entering the approval path.
// Rule matching happens upstream (document service); the resolver only
// executes the already-matched rule.
type DocumentRef struct {
	DocumentID int64
	TenantID   int64
}

// Service drives approval workflows from creation to a terminal state.
type Service struct {
	repo     Repository
	resolver *Resolver
	eventBus EventPublisher
	logger   *slog.Logger
}

func NewService(repo Repository, resolver *Resolver, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		eventBus: eventBus,
		logger:   logger,
	}
}

// StartWorkflow creates the workflow for a document against a matched
// rule and activates the first resolvable level. A document may have
// at most one non-terminal workflow.
func (s *Service) StartWorkflow(ctx context.Context, doc DocumentRef, ruleID int64) (*Workflow, error) {
	var (
		workflow *Workflow
		pending  []events.Event
	)

	err := s.repo.InTransaction(func(r Repository) error {
		existing, err := r.GetWorkflowByDocumentID(doc.DocumentID)
		if err != nil {
			return err
		}
		if existing != nil && !existing.IsTerminal() {
			s.logger.Warn("rejected duplicate workflow start",
				"document_id", doc.DocumentID,
				"existing_workflow_id", existing.ID,
				"existing_status", existing.Status)
			return internal.ErrDuplicateWorkflow
		}

		rule, err := r.GetRuleWithLevels(ruleID)
		if err != nil {
			return err
		}
		if rule == nil {
			return internal.ErrRuleNotFound
		}

		workflow = &Workflow{
			TenantID:   doc.TenantID,
			DocumentID: doc.DocumentID,
			RuleID:     rule.ID,
			Status:     WorkflowStatusPending,
		}
		if err := r.CreateWorkflow(workflow); err != nil {
			return err
		}

		pending, err = s.activateFromLevel(r, workflow, rule, 0)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishAll(ctx, pending)

	s.logger.Info("workflow started",
		"workflow_id", workflow.ID,
		"document_id", doc.DocumentID,
		"rule_id", ruleID,
		"status", workflow.Status)

	return workflow, nil
}

// RecordDecision applies one approver's decision and advances the
// workflow: rejection is terminal, approval is evaluated against the
// level's quorum mode. The whole path runs in one transaction that
// locks the workflow row before reading any quorum state, so two
// near-simultaneous ALL-mode approvals on sibling instances cannot
// both observe an unsatisfied quorum and leave the level stuck.
func (s *Service) RecordDecision(ctx context.Context, instanceID, approverID int64, decision string, comment *string) (*Workflow, error) {
	if decision != DecisionApproved && decision != DecisionRejected {
		return nil, internal.NewValidationError("decision must be approved or rejected", internal.ErrCodeValidationFailed)
	}

	var (
		workflow *Workflow
		pending  []events.Event
	)

	err := s.repo.InTransaction(func(r Repository) error {
		instance, err := r.GetInstanceByID(instanceID)
		if err != nil {
			return err
		}
		if instance == nil {
			return internal.ErrInstanceNotFound
		}
		if instance.ApproverID != approverID {
			return internal.ErrNotInstanceApprover
		}

		// serialization point: every decision on this workflow queues
		// here, so the sibling reads below always see the latest
		// committed quorum state
		workflow, err = r.GetWorkflowByIDForUpdate(instance.WorkflowID)
		if err != nil {
			return err
		}
		if workflow == nil {
			return internal.ErrWorkflowNotFound
		}
		if workflow.Status != WorkflowStatusInProgress {
			return internal.ErrInvalidTransition
		}
		if workflow.CurrentLevelOrder == nil || instance.LevelOrder != *workflow.CurrentLevelOrder {
			return internal.ErrInvalidTransition
		}

		// re-read under the workflow lock; the pre-lock read may be
		// stale against a decision that committed while we waited
		instance, err = r.GetInstanceByIDForUpdate(instanceID)
		if err != nil {
			return err
		}
		if instance == nil {
			return internal.ErrInstanceNotFound
		}
		if instance.IsDecided() {
			return internal.ErrInvalidTransition
		}

		now := time.Now()
		if err := r.UpdateInstanceDecision(instance.ID, decision, comment, now); err != nil {
			return err
		}
		pending = append(pending, events.NewDecisionRecordedEvent(
			workflow.ID, workflow.DocumentID, instance.ID, approverID, decision, instance.LevelOrder))

		if decision == DecisionRejected {
			if err := r.SkipPendingInstancesAtLevel(workflow.ID, instance.LevelOrder); err != nil {
				return err
			}
			workflow.Status = WorkflowStatusRejected
			workflow.CompletedAt = &now
			if err := r.UpdateWorkflow(workflow); err != nil {
				return err
			}
			pending = append(pending, events.NewWorkflowRejectedEvent(workflow.ID, workflow.DocumentID))
			return nil
		}

		rule, err := r.GetRuleWithLevels(workflow.RuleID)
		if err != nil {
			return err
		}
		if rule == nil {
			return internal.ErrRuleNotFound
		}
		level := rule.levelByOrder(instance.LevelOrder)
		if level == nil {
			return internal.ErrInvalidTransition
		}

		siblings, err := r.GetInstancesForLevel(workflow.ID, instance.LevelOrder)
		if err != nil {
			return err
		}
		if !quorumSatisfied(level.Mode, siblings) {
			return nil
		}

		if level.Mode == ModeAny {
			if err := r.SkipPendingInstancesAtLevel(workflow.ID, instance.LevelOrder); err != nil {
				return err
			}
		}

		nextIdx := rule.levelIndexAfter(instance.LevelOrder)
		levelEvents, err := s.activateFromLevel(r, workflow, rule, nextIdx)
		if err != nil {
			return err
		}
		pending = append(pending, levelEvents...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishAll(ctx, pending)

	s.logger.Info("decision recorded",
		"instance_id", instanceID,
		"approver_id", approverID,
		"decision", decision,
		"workflow_id", workflow.ID,
		"workflow_status", workflow.Status)

	return workflow, nil
}

// CancelWorkflow cancels an in-flight workflow, used when the document
// is withdrawn. Terminal workflows cannot be cancelled.
func (s *Service) CancelWorkflow(ctx context.Context, workflowID int64) (*Workflow, error) {
	var workflow *Workflow

	err := s.repo.InTransaction(func(r Repository) error {
		var err error
		workflow, err = r.GetWorkflowByID(workflowID)
		if err != nil {
			return err
		}
		if workflow == nil {
			return internal.ErrWorkflowNotFound
		}
		if !workflow.CanBeCancelled() {
			return internal.ErrInvalidTransition
		}

		if err := r.SkipPendingInstances(workflow.ID); err != nil {
			return err
		}

		now := time.Now()
		workflow.Status = WorkflowStatusCancelled
		workflow.CompletedAt = &now
		return r.UpdateWorkflow(workflow)
	})
	if err != nil {
		return nil, err
	}

	s.publishAll(ctx, []events.Event{events.NewWorkflowCancelledEvent(workflow.ID, workflow.DocumentID)})

	s.logger.Info("workflow cancelled", "workflow_id", workflow.ID, "document_id", workflow.DocumentID)
	return workflow, nil
}

// GetWorkflowForDocument returns the document's workflow and all its
// instances, newest workflow if the document went through several runs.
func (s *Service) GetWorkflowForDocument(documentID int64) (*Workflow, []*Instance, error) {
	workflow, err := s.repo.GetWorkflowByDocumentID(documentID)
	if err != nil {
		return nil, nil, err
	}
	if workflow == nil {
		return nil, nil, internal.ErrWorkflowNotFound
	}

	instances, err := s.repo.GetInstancesForWorkflow(workflow.ID)
	if err != nil {
		return nil, nil, err
	}
	return workflow, instances, nil
}

// GetPendingForApprover lists the caller's open approval instances.
func (s *Service) GetPendingForApprover(approverID int64, limit, offset int) ([]*Instance, error) {
	return s.repo.GetPendingInstancesForApprover(approverID, limit, offset)
}

// activateFromLevel walks rule levels starting at levelIdx, skipping
// levels that resolve to zero approvers, and either materializes the
// first resolvable level or completes the workflow as approved when
// every remaining level is empty (or none remain). currentLevelOrder
// only ever increases.
func (s *Service) activateFromLevel(r Repository, workflow *Workflow, rule *Rule, levelIdx int) ([]events.Event, error) {
	var pending []events.Event
	now := time.Now()
	levels := rule.sortedLevels()

	for idx := levelIdx; idx < len(levels); idx++ {
		level := levels[idx]

		resolved, err := s.resolver.ResolveLevel(&level, now)
		if err != nil {
			return nil, err
		}

		if len(resolved) == 0 {
			s.logger.Info("level resolved to zero approvers, auto-skipping",
				"workflow_id", workflow.ID,
				"level_order", level.LevelOrder)
			pending = append(pending, events.NewLevelSkippedEvent(workflow.ID, workflow.DocumentID, level.LevelOrder))
			continue
		}

		instances := make([]*Instance, 0, len(resolved))
		approverIDs := make([]int64, 0, len(resolved))
		for _, ra := range resolved {
			instances = append(instances, &Instance{
				WorkflowID:    workflow.ID,
				LevelID:       level.ID,
				LevelOrder:    level.LevelOrder,
				ApproverID:    ra.ApproverID,
				DelegatedFrom: ra.DelegatedFrom,
				Decision:      DecisionPending,
			})
			approverIDs = append(approverIDs, ra.ApproverID)
		}
		if err := r.CreateInstances(instances); err != nil {
			return nil, err
		}

		levelOrder := level.LevelOrder
		workflow.CurrentLevelOrder = &levelOrder
		workflow.Status = WorkflowStatusInProgress
		if err := r.UpdateWorkflow(workflow); err != nil {
			return nil, err
		}

		pending = append(pending, events.NewLevelActivatedEvent(workflow.ID, workflow.DocumentID, level.LevelOrder, approverIDs))
		return pending, nil
	}

	workflow.Status = WorkflowStatusApproved
	workflow.CompletedAt = &now
	if err := r.UpdateWorkflow(workflow); err != nil {
		return nil, err
	}
	pending = append(pending, events.NewWorkflowApprovedEvent(workflow.ID, workflow.DocumentID))
	return pending, nil
}

func (s *Service) publishAll(ctx context.Context, pending []events.Event) {
	for _, event := range pending {
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish workflow event",
				"event_type", event.EventType(),
				"error", err)
		}
	}
}

// quorumSatisfied evaluates a level's quorum over its instances.
// ANY: one approval suffices. ALL: no pending and no rejected
// instance may remain; skipped instances do not block.
func quorumSatisfied(mode string, instances []*Instance) bool {
	switch mode {
	case ModeAny:
		for _, i := range instances {
			if i.Decision == DecisionApproved {
				return true
			}
		}
		return false
	case ModeAll:
		for _, i := range instances {
			if i.Decision == DecisionPending || i.Decision == DecisionRejected {
				return false
			}
		}
		return len(instances) > 0
	}
	return false
}

func (r *Rule) sortedLevels() []Level {
	levels := make([]Level, len(r.Levels))
	copy(levels, r.Levels)
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].LevelOrder < levels[j].LevelOrder
	})
	return levels
}

func (r *Rule) levelByOrder(order int) *Level {
	for i := range r.Levels {
		if r.Levels[i].LevelOrder == order {
			return &r.Levels[i]
		}
	}
	return nil
}

// levelIndexAfter returns the index (into sortedLevels) of the first
// level strictly after the given order, or len(levels).
func (r *Rule) levelIndexAfter(order int) int {
	levels := r.sortedLevels()
	for i, l := range levels {
		if l.LevelOrder > order {
			return i
		}
	}
	return len(levels)
}
