package document

import "errors"

// CreateDocumentDTO is the request payload for creating a draft
// procurement document.
type CreateDocumentDTO struct {
	DocumentType string `json:"document_type" validate:"required,oneof=purchase_requisition purchase_order supplier_invoice"`
	Number       string `json:"number" validate:"required"`
	Description  string `json:"description" validate:"required,min=1,max=500"`
	Category     string `json:"category"`
	AmountIDR    int64  `json:"amount_idr" validate:"required,min=1"`
	SupplierName string `json:"supplier_name,omitempty"`
}

func (dto CreateDocumentDTO) Validate() error {
	if !IsValidType(dto.DocumentType) {
		return errors.New("document_type must be purchase_requisition, purchase_order or supplier_invoice")
	}
	if dto.Number == "" {
		return errors.New("number is required")
	}
	if dto.Description == "" {
		return errors.New("description is required")
	}
	if len(dto.Description) > 500 {
		return errors.New("description must be less than 500 characters")
	}
	if dto.AmountIDR <= 0 {
		return errors.New("amount must be greater than 0")
	}
	return nil
}

// UpdateDocumentDTO carries draft edits; submitted documents are
// frozen.
type UpdateDocumentDTO struct {
	Description  *string `json:"description,omitempty"`
	Category     *string `json:"category,omitempty"`
	AmountIDR    *int64  `json:"amount_idr,omitempty"`
	SupplierName *string `json:"supplier_name,omitempty"`
}

func (dto UpdateDocumentDTO) Validate() error {
	if dto.Description != nil && *dto.Description == "" {
		return errors.New("description cannot be empty")
	}
	if dto.Description != nil && len(*dto.Description) > 500 {
		return errors.New("description must be less than 500 characters")
	}
	if dto.AmountIDR != nil && *dto.AmountIDR <= 0 {
		return errors.New("amount must be greater than 0")
	}
	return nil
}
