package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/procurement-portal/internal/core/events"
)

// OwnerLookup resolves a document to its submitting user.
type OwnerLookup interface {
	DocumentOwner(documentID int64) (int64, error)
}

// EventHandler turns workflow events into in-app notifications.
type EventHandler struct {
	service *Service
	owners  OwnerLookup
	logger  *slog.Logger
}

func NewEventHandler(service *Service, owners OwnerLookup, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		owners:  owners,
		logger:  logger,
	}
}

func (h *EventHandler) HandleLevelActivated(ctx context.Context, event events.Event) error {
	activated, ok := event.(*events.LevelActivatedEvent)
	if !ok {
		h.logger.Error("invalid event type for level activated handler", "event_type", event.EventType())
		return fmt.Errorf("expected LevelActivatedEvent, got %T", event)
	}

	h.logger.Info("handling level activated event",
		"workflow_id", activated.WorkflowID,
		"document_id", activated.DocumentID,
		"level_order", activated.LevelOrder,
		"approvers", len(activated.ApproverIDs),
		"event_id", activated.EventID())

	return h.service.NotifyApprovalRequested(
		activated.ApproverIDs,
		activated.DocumentID,
		activated.WorkflowID,
		activated.LevelOrder,
	)
}

func (h *EventHandler) HandleWorkflowApproved(ctx context.Context, event events.Event) error {
	return h.handleWorkflowCompleted(event, true)
}

func (h *EventHandler) HandleWorkflowRejected(ctx context.Context, event events.Event) error {
	return h.handleWorkflowCompleted(event, false)
}

func (h *EventHandler) handleWorkflowCompleted(event events.Event, approved bool) error {
	completed, ok := event.(*events.WorkflowCompletedEvent)
	if !ok {
		h.logger.Error("invalid event type for workflow completed handler", "event_type", event.EventType())
		return fmt.Errorf("expected WorkflowCompletedEvent, got %T", event)
	}

	ownerID, err := h.owners.DocumentOwner(completed.DocumentID)
	if err != nil {
		h.logger.Error("failed to resolve document owner",
			"error", err,
			"document_id", completed.DocumentID,
			"event_id", completed.EventID())
		return err
	}

	return h.service.NotifyDocumentOutcome(ownerID, completed.DocumentID, approved)
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeLevelActivated, h.HandleLevelActivated)
	eventBus.Subscribe(events.EventTypeWorkflowApproved, h.HandleWorkflowApproved)
	eventBus.Subscribe(events.EventTypeWorkflowRejected, h.HandleWorkflowRejected)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{
			events.EventTypeLevelActivated,
			events.EventTypeWorkflowApproved,
			events.EventTypeWorkflowRejected,
		})
}
