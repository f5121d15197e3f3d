package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount      ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDescription ErrorCode = "INVALID_DESCRIPTION"
	ErrCodeInvalidCategory    ErrorCode = "INVALID_CATEGORY"
	ErrCodeInvalidDate        ErrorCode = "INVALID_DATE"
	ErrCodeAmountTooLow       ErrorCode = "AMOUNT_TOO_LOW"
	ErrCodeAmountTooHigh      ErrorCode = "AMOUNT_TOO_HIGH"

	ErrCodeDocumentNotFound      ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrCodeUnauthorizedAccess    ErrorCode = "UNAUTHORIZED_ACCESS"
	ErrCodeInvalidDocumentStatus ErrorCode = "INVALID_DOCUMENT_STATUS"
	ErrCodeCannotModifyDocument  ErrorCode = "CANNOT_MODIFY_DOCUMENT"

	ErrCodeWorkflowNotFound         ErrorCode = "WORKFLOW_NOT_FOUND"
	ErrCodeInstanceNotFound         ErrorCode = "INSTANCE_NOT_FOUND"
	ErrCodeDuplicateWorkflow        ErrorCode = "DUPLICATE_WORKFLOW"
	ErrCodeInvalidTransition        ErrorCode = "INVALID_TRANSITION"
	ErrCodeUnresolvedApprover       ErrorCode = "UNRESOLVED_APPROVER"
	ErrCodeInvalidDelegationWindow  ErrorCode = "INVALID_DELEGATION_WINDOW"
	ErrCodeDelegationNotFound       ErrorCode = "DELEGATION_NOT_FOUND"
	ErrCodeRuleNotFound             ErrorCode = "RULE_NOT_FOUND"
	ErrCodeRuleInUse                ErrorCode = "RULE_IN_USE"
	ErrCodeSelfDelegation           ErrorCode = "SELF_DELEGATION"
	ErrCodeNotInstanceApprover      ErrorCode = "NOT_INSTANCE_APPROVER"
	ErrCodeNotificationNotFound     ErrorCode = "NOTIFICATION_NOT_FOUND"
	ErrCodeInvalidApproverSpec      ErrorCode = "INVALID_APPROVER_SPEC"
	ErrCodeInvalidLevelConfig       ErrorCode = "INVALID_LEVEL_CONFIG"
	ErrCodeDocumentAlreadySubmitted ErrorCode = "DOCUMENT_ALREADY_SUBMITTED"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {

			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrDocumentNotFound      = NewNotFoundError("Document not found", ErrCodeDocumentNotFound)
	ErrUnauthorizedAccess    = NewForbiddenError("unauthorized access to document", ErrCodeUnauthorizedAccess)
	ErrInvalidDocumentStatus = NewValidationError("invalid document status for this operation", ErrCodeInvalidDocumentStatus)
	ErrCannotModifyDocument  = NewValidationError("Cannot modify document in current status", ErrCodeCannotModifyDocument)

	ErrWorkflowNotFound  = NewNotFoundError("Approval workflow not found", ErrCodeWorkflowNotFound)
	ErrInstanceNotFound  = NewNotFoundError("Approval instance not found", ErrCodeInstanceNotFound)
	ErrDuplicateWorkflow = NewConflictError("document already has an active approval workflow", ErrCodeDuplicateWorkflow)
	ErrInvalidTransition = NewValidationError("operation not permitted in current workflow state", ErrCodeInvalidTransition)
	// ErrUnresolvedApprover names the error kind for an approver spec
	// that points at a deactivated user. Resolution skips such approvers
	// and logs the skip instead of failing the level, so the kind
	// reaches API clients only through the taxonomy, not as a returned
	// error.
	ErrUnresolvedApprover      = NewValidationError("approver reference is no longer valid", ErrCodeUnresolvedApprover)
	ErrInvalidDelegationWindow = NewValidationError("delegation start date must not be after end date", ErrCodeInvalidDelegationWindow)
	ErrDelegationNotFound      = NewNotFoundError("Delegation not found", ErrCodeDelegationNotFound)
	ErrRuleNotFound            = NewNotFoundError("Approval rule not found", ErrCodeRuleNotFound)
	ErrRuleInUse               = NewConflictError("approval rule is referenced by existing workflows", ErrCodeRuleInUse)
	ErrSelfDelegation          = NewValidationError("cannot delegate approval authority to yourself", ErrCodeSelfDelegation)
	ErrNotInstanceApprover     = NewForbiddenError("caller is not the approver of this instance", ErrCodeNotInstanceApprover)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
