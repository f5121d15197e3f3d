package document

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/approval"
)

// Repository defines the data access methods for documents.
type Repository interface {
	Create(doc *Document) error
	GetByID(id int64) (*Document, error)
	GetByUserID(userID int64, limit, offset int) ([]*Document, error)
	GetForTenant(tenantID int64, limit, offset int) ([]*Document, error)
	Update(doc *Document) error
	UpdateStatus(id int64, status string, processedAt *time.Time) error
}

// RuleMatcher finds the approval rule applying to a document, if any.
type RuleMatcher interface {
	MatchRule(tenantID int64, documentType string, amount int64, category string) (*approval.Rule, error)
}

// WorkflowAPI is the slice of the approval service the document
// lifecycle drives.
type WorkflowAPI interface {
	StartWorkflow(ctx context.Context, doc approval.DocumentRef, ruleID int64) (*approval.Workflow, error)
	CancelWorkflow(ctx context.Context, workflowID int64) (*approval.Workflow, error)
	GetWorkflowForDocument(documentID int64) (*approval.Workflow, []*approval.Instance, error)
}

type Service struct {
	repo      Repository
	rules     RuleMatcher
	workflows WorkflowAPI
	logger    *slog.Logger
}

func NewService(repo Repository, rules RuleMatcher, workflows WorkflowAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		rules:     rules,
		workflows: workflows,
		logger:    logger,
	}
}

func (s *Service) CreateDocument(tenantID, userID int64, dto CreateDocumentDTO) (*Document, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("document validation failed", "error", err, "user_id", userID)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	now := time.Now()
	doc := &Document{
		TenantID:     tenantID,
		UserID:       userID,
		DocumentType: dto.DocumentType,
		Number:       dto.Number,
		Description:  dto.Description,
		Category:     dto.Category,
		AmountIDR:    dto.AmountIDR,
		SupplierName: dto.SupplierName,
		Status:       StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(doc); err != nil {
		s.logger.Error("failed to create document", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("document created",
		"document_id", doc.ID,
		"user_id", userID,
		"document_type", doc.DocumentType,
		"amount", doc.AmountIDR)

	return doc, nil
}

func (s *Service) GetDocumentByID(id, userID int64, isManager bool) (*Document, error) {
	doc, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get document", "error", err, "document_id", id)
		return nil, err
	}
	if doc == nil {
		return nil, internal.ErrDocumentNotFound
	}

	if !isManager && doc.UserID != userID {
		s.logger.Warn("unauthorized access to document",
			"document_id", id,
			"user_id", userID,
			"owner_id", doc.UserID)
		return nil, internal.ErrUnauthorizedAccess
	}

	return doc, nil
}

func (s *Service) GetUserDocuments(userID int64, limit, offset int) ([]*Document, error) {
	docs, err := s.repo.GetByUserID(userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to get user documents", "error", err, "user_id", userID)
		return nil, err
	}
	return docs, nil
}

func (s *Service) GetTenantDocuments(tenantID int64, limit, offset int) ([]*Document, error) {
	docs, err := s.repo.GetForTenant(tenantID, limit, offset)
	if err != nil {
		s.logger.Error("failed to get tenant documents", "error", err, "tenant_id", tenantID)
		return nil, err
	}
	return docs, nil
}

func (s *Service) UpdateDocument(id, userID int64, dto UpdateDocumentDTO) (*Document, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	doc, err := s.GetDocumentByID(id, userID, false)
	if err != nil {
		return nil, err
	}
	if !doc.CanBeModified() {
		s.logger.Warn("rejected edit on non-draft document", "document_id", id, "status", doc.Status)
		return nil, internal.ErrCannotModifyDocument
	}

	if dto.Description != nil {
		doc.Description = *dto.Description
	}
	if dto.Category != nil {
		doc.Category = *dto.Category
	}
	if dto.AmountIDR != nil {
		doc.AmountIDR = *dto.AmountIDR
	}
	if dto.SupplierName != nil {
		doc.SupplierName = *dto.SupplierName
	}
	doc.UpdatedAt = time.Now()

	if err := s.repo.Update(doc); err != nil {
		s.logger.Error("failed to update document", "error", err, "document_id", id)
		return nil, err
	}

	return doc, nil
}

// SubmitDocument routes a draft into approval. When a rule matches,
// a workflow starts and the document waits in_approval; when none
// matches, the document is approved outright.
func (s *Service) SubmitDocument(ctx context.Context, id, userID int64) (*Document, error) {
	doc, err := s.GetDocumentByID(id, userID, false)
	if err != nil {
		return nil, err
	}
	if !doc.CanBeSubmitted() {
		s.logger.Warn("rejected submit on non-draft document", "document_id", id, "status", doc.Status)
		return nil, internal.ErrInvalidDocumentStatus
	}

	matched, err := s.rules.MatchRule(doc.TenantID, doc.DocumentType, doc.AmountIDR, doc.Category)
	if err != nil {
		s.logger.Error("rule matching failed", "error", err, "document_id", id)
		return nil, err
	}

	now := time.Now()
	doc.SubmittedAt = &now
	doc.UpdatedAt = now

	if matched == nil {
		doc.Status = StatusApproved
		doc.ProcessedAt = &now
		if err := s.repo.Update(doc); err != nil {
			s.logger.Error("failed to auto-approve document", "error", err, "document_id", id)
			return nil, err
		}
		s.logger.Info("document auto-approved, no rule matched",
			"document_id", id,
			"document_type", doc.DocumentType,
			"amount", doc.AmountIDR)
		return doc, nil
	}

	doc.Status = StatusInApproval
	if err := s.repo.Update(doc); err != nil {
		s.logger.Error("failed to submit document", "error", err, "document_id", id)
		return nil, err
	}

	ref := approval.DocumentRef{DocumentID: doc.ID, TenantID: doc.TenantID}
	workflow, err := s.workflows.StartWorkflow(ctx, ref, matched.ID)
	if err != nil {
		s.logger.Error("failed to start workflow", "error", err, "document_id", id, "rule_id", matched.ID)
		// roll the document back to draft so the user can retry
		doc.Status = StatusDraft
		doc.SubmittedAt = nil
		if rbErr := s.repo.Update(doc); rbErr != nil {
			s.logger.Error("failed to revert document after workflow error", "error", rbErr, "document_id", id)
		}
		return nil, err
	}

	// a workflow can complete synchronously when every level resolves
	// to no approvers
	if workflow.Status == approval.WorkflowStatusApproved {
		doc.Status = StatusApproved
		doc.ProcessedAt = workflow.CompletedAt
		if err := s.repo.Update(doc); err != nil {
			s.logger.Error("failed to mark document approved", "error", err, "document_id", id)
			return nil, err
		}
	}

	s.logger.Info("document submitted",
		"document_id", id,
		"workflow_id", workflow.ID,
		"rule_id", matched.ID,
		"status", doc.Status)

	return doc, nil
}

// WithdrawDocument cancels the in-flight workflow and returns the
// document to draft.
func (s *Service) WithdrawDocument(ctx context.Context, id, userID int64) (*Document, error) {
	doc, err := s.GetDocumentByID(id, userID, false)
	if err != nil {
		return nil, err
	}
	if !doc.CanBeWithdrawn() {
		s.logger.Warn("rejected withdraw on document", "document_id", id, "status", doc.Status)
		return nil, internal.ErrInvalidDocumentStatus
	}

	workflow, _, err := s.workflows.GetWorkflowForDocument(id)
	if err != nil {
		s.logger.Error("failed to get workflow for withdrawal", "error", err, "document_id", id)
		return nil, err
	}

	if _, err := s.workflows.CancelWorkflow(ctx, workflow.ID); err != nil {
		s.logger.Error("failed to cancel workflow", "error", err, "workflow_id", workflow.ID)
		return nil, err
	}

	doc.Status = StatusDraft
	doc.SubmittedAt = nil
	doc.UpdatedAt = time.Now()
	if err := s.repo.Update(doc); err != nil {
		s.logger.Error("failed to revert withdrawn document", "error", err, "document_id", id)
		return nil, err
	}

	s.logger.Info("document withdrawn", "document_id", id, "workflow_id", workflow.ID)
	return doc, nil
}

// DocumentOwner returns the submitting user's ID. Used by the
// notification dispatcher when a workflow completes.
func (s *Service) DocumentOwner(documentID int64) (int64, error) {
	doc, err := s.repo.GetByID(documentID)
	if err != nil {
		return 0, err
	}
	if doc == nil {
		return 0, internal.ErrDocumentNotFound
	}
	return doc.UserID, nil
}

// MarkProcessed records a workflow's terminal outcome on the
// document. Called from the workflow event handler.
func (s *Service) MarkProcessed(documentID int64, status string, processedAt time.Time) error {
	if err := s.repo.UpdateStatus(documentID, status, &processedAt); err != nil {
		s.logger.Error("failed to record workflow outcome on document",
			"error", err,
			"document_id", documentID,
			"status", status)
		return err
	}

	s.logger.Info("document status updated from workflow",
		"document_id", documentID,
		"status", status)
	return nil
}
