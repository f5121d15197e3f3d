package approval

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/auth"
	"github.com/frahmantamala/procurement-portal/internal/transport"
	"github.com/frahmantamala/procurement-portal/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	RecordDecision(ctx context.Context, instanceID, approverID int64, decision string, comment *string) (*Workflow, error)
	CancelWorkflow(ctx context.Context, workflowID int64) (*Workflow, error)
	GetWorkflowForDocument(documentID int64) (*Workflow, []*Instance, error)
	GetPendingForApprover(approverID int64, limit, offset int) ([]*Instance, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// RecordDecision accepts an approver's decision on one instance. The
// authenticated caller must be the instance's resolved approver; the
// service enforces that as well.
func (h *Handler) RecordDecision(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("RecordDecision: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	instanceIDStr := chi.URLParam(r, "id")
	instanceID, err := strconv.ParseInt(instanceIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("RecordDecision: invalid instance ID", "id", instanceIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid instance ID")
		return
	}

	var dto DecisionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RecordDecision: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.Logger.Error("RecordDecision: validation error", "error", err)
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	workflow, err := h.Service.RecordDecision(r.Context(), instanceID, user.ID, dto.Decision, dto.Comment)
	if err != nil {
		h.Logger.Error("RecordDecision: service error", "error", err, "instance_id", instanceID, "user_id", user.ID)
		h.handleWorkflowError(w, err)
		return
	}

	h.Logger.Info("RecordDecision: decision recorded",
		"instance_id", instanceID,
		"user_id", user.ID,
		"decision", dto.Decision,
		"workflow_status", workflow.Status)

	h.WriteJSON(w, http.StatusOK, workflow)
}

// GetPendingApprovals lists the caller's open instances.
func (h *Handler) GetPendingApprovals(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetPendingApprovals: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 20
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	instances, err := h.Service.GetPendingForApprover(user.ID, limit, offset)
	if err != nil {
		h.Logger.Error("GetPendingApprovals: service error", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to get pending approvals")
		return
	}

	views := make([]PendingInstanceView, 0, len(instances))
	for _, inst := range instances {
		views = append(views, PendingInstanceView{
			InstanceID:    inst.ID,
			WorkflowID:    inst.WorkflowID,
			LevelOrder:    inst.LevelOrder,
			DelegatedFrom: inst.DelegatedFrom,
			CreatedAt:     inst.CreatedAt,
		})
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"approvals": views,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetDocumentWorkflow returns a document's workflow grouped per level.
func (h *Handler) GetDocumentWorkflow(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetDocumentWorkflow: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	documentIDStr := chi.URLParam(r, "id")
	documentID, err := strconv.ParseInt(documentIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("GetDocumentWorkflow: invalid document ID", "id", documentIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	workflow, instances, err := h.Service.GetWorkflowForDocument(documentID)
	if err != nil {
		h.Logger.Error("GetDocumentWorkflow: service error", "error", err, "document_id", documentID)
		h.handleWorkflowError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, NewWorkflowView(workflow, instances))
}

func (h *Handler) handleWorkflowError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.WriteError(w, appErr.StatusCode, appErr.Error())
		return
	}
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}
