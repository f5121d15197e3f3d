package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLevelActivated    = "approval.level_activated"
	EventTypeLevelSkipped      = "approval.level_skipped"
	EventTypeDecisionRecorded  = "approval.decision_recorded"
	EventTypeWorkflowApproved  = "approval.workflow_approved"
	EventTypeWorkflowRejected  = "approval.workflow_rejected"
	EventTypeWorkflowCancelled = "approval.workflow_cancelled"
)

// LevelActivatedEvent is published when a level's instances are
// materialized; ApproverIDs carries the acting approvers (delegates
// already substituted).
type LevelActivatedEvent struct {
	BaseEvent
	WorkflowID  int64   `json:"workflow_id"`
	DocumentID  int64   `json:"document_id"`
	LevelOrder  int     `json:"level_order"`
	ApproverIDs []int64 `json:"approver_ids"`
}

func NewLevelActivatedEvent(workflowID, documentID int64, levelOrder int, approverIDs []int64) *LevelActivatedEvent {
	return &LevelActivatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLevelActivated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"workflow_id":  workflowID,
				"document_id":  documentID,
				"level_order":  levelOrder,
				"approver_ids": approverIDs,
			},
		},
		WorkflowID:  workflowID,
		DocumentID:  documentID,
		LevelOrder:  levelOrder,
		ApproverIDs: approverIDs,
	}
}

type LevelSkippedEvent struct {
	BaseEvent
	WorkflowID int64 `json:"workflow_id"`
	DocumentID int64 `json:"document_id"`
	LevelOrder int   `json:"level_order"`
}

func NewLevelSkippedEvent(workflowID, documentID int64, levelOrder int) *LevelSkippedEvent {
	return &LevelSkippedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLevelSkipped,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"workflow_id": workflowID,
				"document_id": documentID,
				"level_order": levelOrder,
			},
		},
		WorkflowID: workflowID,
		DocumentID: documentID,
		LevelOrder: levelOrder,
	}
}

type DecisionRecordedEvent struct {
	BaseEvent
	WorkflowID int64  `json:"workflow_id"`
	DocumentID int64  `json:"document_id"`
	InstanceID int64  `json:"instance_id"`
	ApproverID int64  `json:"approver_id"`
	Decision   string `json:"decision"`
	LevelOrder int    `json:"level_order"`
}

func NewDecisionRecordedEvent(workflowID, documentID, instanceID, approverID int64, decision string, levelOrder int) *DecisionRecordedEvent {
	return &DecisionRecordedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDecisionRecorded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"workflow_id": workflowID,
				"document_id": documentID,
				"instance_id": instanceID,
				"approver_id": approverID,
				"decision":    decision,
				"level_order": levelOrder,
			},
		},
		WorkflowID: workflowID,
		DocumentID: documentID,
		InstanceID: instanceID,
		ApproverID: approverID,
		Decision:   decision,
		LevelOrder: levelOrder,
	}
}

// WorkflowCompletedEvent covers the three terminal transitions; Type
// distinguishes approved, rejected and cancelled.
type WorkflowCompletedEvent struct {
	BaseEvent
	WorkflowID int64  `json:"workflow_id"`
	DocumentID int64  `json:"document_id"`
	Status     string `json:"status"`
}

func newWorkflowCompletedEvent(eventType string, workflowID, documentID int64, status string) *WorkflowCompletedEvent {
	return &WorkflowCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"workflow_id": workflowID,
				"document_id": documentID,
				"status":      status,
			},
		},
		WorkflowID: workflowID,
		DocumentID: documentID,
		Status:     status,
	}
}

func NewWorkflowApprovedEvent(workflowID, documentID int64) *WorkflowCompletedEvent {
	return newWorkflowCompletedEvent(EventTypeWorkflowApproved, workflowID, documentID, "approved")
}

func NewWorkflowRejectedEvent(workflowID, documentID int64) *WorkflowCompletedEvent {
	return newWorkflowCompletedEvent(EventTypeWorkflowRejected, workflowID, documentID, "rejected")
}

func NewWorkflowCancelledEvent(workflowID, documentID int64) *WorkflowCompletedEvent {
	return newWorkflowCompletedEvent(EventTypeWorkflowCancelled, workflowID, documentID, "cancelled")
}
