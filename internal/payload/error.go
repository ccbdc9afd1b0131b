package payload

// ErrorResponse is the envelope for every error reply.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code, a human-readable message,
// and per-field messages for validation failures.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// NewErrorResponse creates an error reply without field details.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// NewValidationErrorResponse creates an error reply carrying per-field
// validation messages.
func NewValidationErrorResponse(fields map[string]string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{
		Code:    "validation_failed",
		Message: "request validation failed",
		Fields:  fields,
	}}
}
