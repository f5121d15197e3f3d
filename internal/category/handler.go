package category

import (
	"net/http"

	"github.com/frahmantamala/procurement-portal/internal/transport"
)

type ServiceAPI interface {
	GetAllCategories() ([]CategoryResponse, error)
	GetCategoryByName(name string) (*CategoryResponse, error)
	IsValidCategory(name string) bool
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetCategories serves the catalog of categories a document can be
// filed under. Deactivated categories are not listed, so clients never
// offer a category that document submission would reject.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.GetAllCategories()
	if err != nil {
		h.Logger.Error("GetCategories: failed to load category catalog", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get categories")
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoriesResponse{
		Categories: categories,
	})
}
