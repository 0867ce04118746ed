package model

// Standard error codes for lifecycle failures
const (
	ErrCodeOwnerNotFound     = "OWNER_NOT_FOUND"
	ErrCodeVoucherCodeExists = "VOUCHER_CODE_EXISTS"
	ErrCodeRecordExists      = "RECORD_EXISTS"
	ErrCodeRecordNotFound    = "RECORD_NOT_FOUND"
	ErrCodeNotVenueMember    = "NOT_VENUE_MEMBER"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business failure raised by the lifecycle manager. The
// HTTP boundary is the only place translating codes to wire responses.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors. The messages are part of the client contract and
// must not be reworded.
var (
	ErrOwnerNotFound     = NewDomainError(ErrCodeOwnerNotFound, "User Not Found")
	ErrVoucherCodeExists = NewDomainError(ErrCodeVoucherCodeExists, "voucherCode Already Exist!")
	ErrRecordExists      = NewDomainError(ErrCodeRecordExists, "Data Already Exist.!")
	ErrRecordNotFound    = NewDomainError(ErrCodeRecordNotFound, "Data Not Exist.!")
	ErrNotVenueMember    = NewDomainError(ErrCodeNotVenueMember, "Unauthorized")
)

// FieldError describes a single failed validation rule on a submitted field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
