package model

// Response is the success envelope. The body carries its own code field
// independent of the transport status; existing clients read the body code.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the generic error-pipeline envelope (unrouted paths,
// record-not-found, internal failures).
type ErrorResponse struct {
	Code    int    `json:"code"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ValidationResponse carries the list of field errors for a 400 response.
type ValidationResponse struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// HealthResponse echoes the request headers back to the caller.
type HealthResponse struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Headers map[string][]string `json:"headers"`
}
