package notification

import (
	"errors"
	"time"

	notificationDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/notification"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification kinds.
const (
	KindApprovalRequested = "approval_requested"
	KindDocumentApproved  = "document_approved"
	KindDocumentRejected  = "document_rejected"
)

// Reference types a notification can point at.
const (
	RefTypeDocument = "document"
	RefTypeWorkflow = "workflow"
)

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	RefType   string    `json:"ref_type,omitempty"`
	RefID     int64     `json:"ref_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func ToDataModel(n *Notification) *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Kind:      n.Kind,
		Message:   n.Message,
		RefType:   n.RefType,
		RefID:     n.RefID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func FromDataModel(m *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Kind:      m.Kind,
		Message:   m.Message,
		RefType:   m.RefType,
		RefID:     m.RefID,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func FromDataModelSlice(models []*notificationDatamodel.Notification) []*Notification {
	result := make([]*Notification, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
