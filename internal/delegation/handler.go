package delegation

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/auth"
	"github.com/frahmantamala/procurement-portal/internal/transport"
	"github.com/frahmantamala/procurement-portal/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateDelegation(tenantID, delegatorID int64, dto CreateDelegationDTO) (*Delegation, error)
	CancelDelegation(delegationID, callerID int64) error
	ListForUser(userID int64) ([]DelegationView, error)
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

func (h *Handler) CreateDelegation(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CreateDelegation: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateDelegationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateDelegation: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	delegation, err := h.Service.CreateDelegation(user.TenantID, user.ID, dto)
	if err != nil {
		h.Logger.Error("CreateDelegation: service error", "error", err, "user_id", user.ID)
		h.handleDelegationError(w, err)
		return
	}

	h.Logger.Info("CreateDelegation: delegation created",
		"delegation_id", delegation.ID,
		"delegator_id", user.ID,
		"delegate_id", delegation.DelegateID)

	h.WriteJSON(w, http.StatusCreated, NewDelegationView(delegation, time.Now()))
}

func (h *Handler) CancelDelegation(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CancelDelegation: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	delegationIDStr := chi.URLParam(r, "id")
	delegationID, err := strconv.ParseInt(delegationIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("CancelDelegation: invalid delegation ID", "id", delegationIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid delegation ID")
		return
	}

	if err := h.Service.CancelDelegation(delegationID, user.ID); err != nil {
		h.Logger.Error("CancelDelegation: service error", "error", err, "delegation_id", delegationID)
		h.handleDelegationError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) ListDelegations(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ListDelegations: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	views, err := h.Service.ListForUser(user.ID)
	if err != nil {
		h.Logger.Error("ListDelegations: service error", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to list delegations")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"delegations": views,
	})
}

func (h *Handler) handleDelegationError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.WriteError(w, appErr.StatusCode, appErr.Error())
		return
	}
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}
