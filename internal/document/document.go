package document

import (
	"time"

	documentDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/document"
)

// Document types routed through approval.
const (
	TypePurchaseRequisition = "purchase_requisition"
	TypePurchaseOrder       = "purchase_order"
	TypeSupplierInvoice     = "supplier_invoice"
)

// Document statuses. A submitted document mirrors its workflow:
// in_approval while the workflow runs, then approved or rejected.
// Withdrawing cancels the workflow and returns the document to draft.
const (
	StatusDraft      = "draft"
	StatusInApproval = "in_approval"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
)

type Document struct {
	ID           int64      `json:"id"`
	TenantID     int64      `json:"tenant_id"`
	UserID       int64      `json:"user_id"`
	DocumentType string     `json:"document_type"`
	Number       string     `json:"number"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	AmountIDR    int64      `json:"amount_idr"`
	SupplierName string     `json:"supplier_name,omitempty"`
	Status       string     `json:"status"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (d *Document) CanBeSubmitted() bool {
	return d.Status == StatusDraft
}

func (d *Document) CanBeWithdrawn() bool {
	return d.Status == StatusInApproval
}

func (d *Document) CanBeModified() bool {
	return d.Status == StatusDraft
}

func IsValidType(documentType string) bool {
	switch documentType {
	case TypePurchaseRequisition, TypePurchaseOrder, TypeSupplierInvoice:
		return true
	}
	return false
}

func ToDataModel(d *Document) *documentDatamodel.Document {
	return &documentDatamodel.Document{
		ID:           d.ID,
		TenantID:     d.TenantID,
		UserID:       d.UserID,
		DocumentType: d.DocumentType,
		Number:       d.Number,
		Description:  d.Description,
		Category:     d.Category,
		AmountIDR:    d.AmountIDR,
		SupplierName: d.SupplierName,
		Status:       d.Status,
		SubmittedAt:  d.SubmittedAt,
		ProcessedAt:  d.ProcessedAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func FromDataModel(m *documentDatamodel.Document) *Document {
	return &Document{
		ID:           m.ID,
		TenantID:     m.TenantID,
		UserID:       m.UserID,
		DocumentType: m.DocumentType,
		Number:       m.Number,
		Description:  m.Description,
		Category:     m.Category,
		AmountIDR:    m.AmountIDR,
		SupplierName: m.SupplierName,
		Status:       m.Status,
		SubmittedAt:  m.SubmittedAt,
		ProcessedAt:  m.ProcessedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*documentDatamodel.Document) []*Document {
	result := make([]*Document, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
