// Package apierror defines the JSON envelopes used for every 4xx/5xx response.
// Handlers never write raw error strings from lower layers to the client.
package apierror

// APIError is the error envelope. Code is a stable machine-readable key the
// register UI uses to pick its message (e.g. "corte_cerrado").
type APIError struct {
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// WithCode builds an envelope carrying a domain error code.
func WithCode(code, msg string) *APIError {
	return &APIError{Code: code, Detail: msg}
}

// ValidationError lists the offending fields of a rejected payload.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
