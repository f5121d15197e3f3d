package document

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/procurement-portal/internal/core/events"
)

// EventHandler mirrors workflow outcomes onto document statuses.
type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

func (h *EventHandler) HandleWorkflowApproved(ctx context.Context, event events.Event) error {
	completed, ok := event.(*events.WorkflowCompletedEvent)
	if !ok {
		h.logger.Error("invalid event type for workflow approved handler", "event_type", event.EventType())
		return fmt.Errorf("expected WorkflowCompletedEvent, got %T", event)
	}

	h.logger.Info("workflow approved, updating document",
		"workflow_id", completed.WorkflowID,
		"document_id", completed.DocumentID,
		"event_id", completed.EventID())

	return h.service.MarkProcessed(completed.DocumentID, StatusApproved, event.OccurredAt())
}

func (h *EventHandler) HandleWorkflowRejected(ctx context.Context, event events.Event) error {
	completed, ok := event.(*events.WorkflowCompletedEvent)
	if !ok {
		h.logger.Error("invalid event type for workflow rejected handler", "event_type", event.EventType())
		return fmt.Errorf("expected WorkflowCompletedEvent, got %T", event)
	}

	h.logger.Info("workflow rejected, updating document",
		"workflow_id", completed.WorkflowID,
		"document_id", completed.DocumentID,
		"event_id", completed.EventID())

	return h.service.MarkProcessed(completed.DocumentID, StatusRejected, event.OccurredAt())
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeWorkflowApproved, h.HandleWorkflowApproved)
	eventBus.Subscribe(events.EventTypeWorkflowRejected, h.HandleWorkflowRejected)

	h.logger.Info("document event handlers registered",
		"handlers", []string{events.EventTypeWorkflowApproved, events.EventTypeWorkflowRejected})
}
