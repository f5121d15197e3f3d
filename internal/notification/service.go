package notification

import (
	"fmt"
	"log/slog"
)

// Repository defines the data access methods for notifications.
type Repository interface {
	Create(n *Notification) error
	GetForUser(userID int64, unreadOnly bool, limit, offset int) ([]*Notification, error)
	GetByID(id int64) (*Notification, error)
	MarkRead(id int64) error
	CountUnread(userID int64) (int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// NotifyApprovalRequested fans one notification out to each approver
// whose instance just materialized.
func (s *Service) NotifyApprovalRequested(approverIDs []int64, documentID, workflowID int64, levelOrder int) error {
	for _, approverID := range approverIDs {
		n := &Notification{
			UserID:  approverID,
			Kind:    KindApprovalRequested,
			Message: fmt.Sprintf("Document %d is waiting for your approval at level %d", documentID, levelOrder),
			RefType: RefTypeDocument,
			RefID:   documentID,
		}
		if err := s.repo.Create(n); err != nil {
			s.logger.Error("failed to create approval notification",
				"error", err,
				"approver_id", approverID,
				"document_id", documentID)
			return err
		}
	}

	s.logger.Info("approval notifications created",
		"document_id", documentID,
		"workflow_id", workflowID,
		"level_order", levelOrder,
		"approvers", len(approverIDs))
	return nil
}

// NotifyDocumentOutcome tells the document owner the workflow's
// terminal result.
func (s *Service) NotifyDocumentOutcome(ownerID, documentID int64, approved bool) error {
	kind := KindDocumentApproved
	message := fmt.Sprintf("Document %d has been approved", documentID)
	if !approved {
		kind = KindDocumentRejected
		message = fmt.Sprintf("Document %d has been rejected", documentID)
	}

	n := &Notification{
		UserID:  ownerID,
		Kind:    kind,
		Message: message,
		RefType: RefTypeDocument,
		RefID:   documentID,
	}
	if err := s.repo.Create(n); err != nil {
		s.logger.Error("failed to create outcome notification",
			"error", err,
			"owner_id", ownerID,
			"document_id", documentID)
		return err
	}

	s.logger.Info("outcome notification created",
		"owner_id", ownerID,
		"document_id", documentID,
		"kind", kind)
	return nil
}

func (s *Service) ListForUser(userID int64, unreadOnly bool, limit, offset int) ([]*Notification, error) {
	notifications, err := s.repo.GetForUser(userID, unreadOnly, limit, offset)
	if err != nil {
		s.logger.Error("failed to list notifications", "error", err, "user_id", userID)
		return nil, err
	}
	return notifications, nil
}

func (s *Service) CountUnread(userID int64) (int64, error) {
	return s.repo.CountUnread(userID)
}

// MarkRead flags one notification as read. Only the recipient may do
// so.
func (s *Service) MarkRead(notificationID, userID int64) error {
	n, err := s.repo.GetByID(notificationID)
	if err != nil {
		s.logger.Error("failed to get notification", "error", err, "notification_id", notificationID)
		return err
	}
	if n == nil || n.UserID != userID {
		return ErrNotificationNotFound
	}

	return s.repo.MarkRead(notificationID)
}
