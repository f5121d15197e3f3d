package document

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
	CreateDocument(tenantID, userID int64, dto CreateDocumentDTO) (*Document, error)
	GetDocumentByID(id, userID int64, isManager bool) (*Document, error)
	GetUserDocuments(userID int64, limit, offset int) ([]*Document, error)
	GetTenantDocuments(tenantID int64, limit, offset int) ([]*Document, error)
	UpdateDocument(id, userID int64, dto UpdateDocumentDTO) (*Document, error)
	SubmitDocument(ctx context.Context, id, userID int64) (*Document, error)
	WithdrawDocument(ctx context.Context, id, userID int64) (*Document, error)
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

func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CreateDocument: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateDocumentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateDocument: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.Service.CreateDocument(user.TenantID, user.ID, dto)
	if err != nil {
		h.Logger.Error("CreateDocument: service error", "error", err, "user_id", user.ID)
		h.handleDocumentError(w, err)
		return
	}

	h.Logger.Info("CreateDocument: document created",
		"document_id", doc.ID,
		"user_id", user.ID,
		"amount", doc.AmountIDR)

	h.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	documentID, err := h.parseDocumentID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	doc, err := h.Service.GetDocumentByID(documentID, user.ID, user.IsManager())
	if err != nil {
		h.Logger.Error("GetDocument: service error", "error", err, "document_id", documentID)
		h.handleDocumentError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
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

	var (
		docs []*Document
		err  error
	)
	if r.URL.Query().Get("all") == "true" && user.IsManager() {
		docs, err = h.Service.GetTenantDocuments(user.TenantID, limit, offset)
	} else {
		docs, err = h.Service.GetUserDocuments(user.ID, limit, offset)
	}
	if err != nil {
		h.Logger.Error("ListDocuments: service error", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	documentID, err := h.parseDocumentID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	var dto UpdateDocumentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateDocument: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.Service.UpdateDocument(documentID, user.ID, dto)
	if err != nil {
		h.Logger.Error("UpdateDocument: service error", "error", err, "document_id", documentID)
		h.handleDocumentError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) SubmitDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	documentID, err := h.parseDocumentID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	doc, err := h.Service.SubmitDocument(r.Context(), documentID, user.ID)
	if err != nil {
		h.Logger.Error("SubmitDocument: service error", "error", err, "document_id", documentID)
		h.handleDocumentError(w, err)
		return
	}

	h.Logger.Info("SubmitDocument: document submitted",
		"document_id", doc.ID,
		"user_id", user.ID,
		"status", doc.Status)

	h.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) WithdrawDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	documentID, err := h.parseDocumentID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	doc, err := h.Service.WithdrawDocument(r.Context(), documentID, user.ID)
	if err != nil {
		h.Logger.Error("WithdrawDocument: service error", "error", err, "document_id", documentID)
		h.handleDocumentError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) parseDocumentID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) handleDocumentError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.WriteError(w, appErr.StatusCode, appErr.Error())
		return
	}
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}
