package rule

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/approval"
	"github.com/frahmantamala/procurement-portal/internal/auth"
	"github.com/frahmantamala/procurement-portal/internal/transport"
	"github.com/frahmantamala/procurement-portal/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateRule(tenantID int64, dto CreateRuleDTO) (*approval.Rule, error)
	GetRule(tenantID, ruleID int64) (*approval.Rule, error)
	ListRules(tenantID int64) ([]*approval.Rule, error)
	UpdateRule(tenantID, ruleID int64, dto UpdateRuleDTO) (*approval.Rule, error)
	DeleteRule(tenantID, ruleID int64) error
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

func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CreateRule: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateRuleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateRule: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rule, err := h.Service.CreateRule(user.TenantID, dto)
	if err != nil {
		h.Logger.Error("CreateRule: service error", "error", err, "user_id", user.ID)
		h.handleRuleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, rule)
}

func (h *Handler) GetRule(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ruleID, err := h.parseRuleID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid rule ID")
		return
	}

	rule, err := h.Service.GetRule(user.TenantID, ruleID)
	if err != nil {
		h.Logger.Error("GetRule: service error", "error", err, "rule_id", ruleID)
		h.handleRuleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rule)
}

func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rules, err := h.Service.ListRules(user.TenantID)
	if err != nil {
		h.Logger.Error("ListRules: service error", "error", err, "tenant_id", user.TenantID)
		h.WriteError(w, http.StatusInternalServerError, "failed to list rules")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"rules": rules,
	})
}

func (h *Handler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ruleID, err := h.parseRuleID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid rule ID")
		return
	}

	var dto UpdateRuleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateRule: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rule, err := h.Service.UpdateRule(user.TenantID, ruleID, dto)
	if err != nil {
		h.Logger.Error("UpdateRule: service error", "error", err, "rule_id", ruleID)
		h.handleRuleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rule)
}

func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ruleID, err := h.parseRuleID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid rule ID")
		return
	}

	if err := h.Service.DeleteRule(user.TenantID, ruleID); err != nil {
		h.Logger.Error("DeleteRule: service error", "error", err, "rule_id", ruleID)
		h.handleRuleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (h *Handler) parseRuleID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) handleRuleError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.WriteError(w, appErr.StatusCode, appErr.Error())
		return
	}
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}
