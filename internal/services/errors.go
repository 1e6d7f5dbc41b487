// Package services provides the business logic layer between handlers and
// the forecasting engine. Services own request validation, error shaping,
// and the lock that serializes access to the series.
package services

// Error codes carried by ServiceError. Handlers map them to HTTP statuses.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeRange            = "RANGE_ERROR"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeDateNotCovered   = "DATE_NOT_COVERED"
	CodeModel            = "MODEL_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}
