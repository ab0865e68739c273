package domain

// ErrorKind is the machine-distinguishable class of a failure surfaced to callers.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindProvider    ErrorKind = "provider"
	KindAggregation ErrorKind = "aggregation"
	KindInternal    ErrorKind = "internal"
)

// Error is a classified domain error with a stable code and a short,
// caller-safe message.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newValidation(code, msg string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: msg}
}

var (
	ErrMissingFile         = newValidation("MISSING_FILE", "file field is required")
	ErrUnsupportedFileType = newValidation("UNSUPPORTED_FILE_TYPE", "unsupported file type; only PDF claim documents are accepted")
	ErrFileTooLarge        = newValidation("FILE_TOO_LARGE", "file exceeds maximum allowed size")
	ErrUnreadableDocument  = newValidation("UNREADABLE_DOCUMENT", "no readable text could be extracted from the document")
	ErrInvalidBody         = newValidation("INVALID_BODY", "request body is not valid JSON for this endpoint")
	ErrEmptyClaimText      = newValidation("EMPTY_CLAIM_TEXT", "no claim text provided")
	ErrAgeOutOfRange       = newValidation("AGE_OUT_OF_RANGE", "age must be between 18 and 120")
	ErrNegativeAmount      = newValidation("NEGATIVE_AMOUNT", "amount must not be negative")
	ErrInvalidOutcome      = newValidation("INVALID_OUTCOME", "outcome must be Approved or Denied")
	ErrAppealInputMissing  = newValidation("APPEAL_INPUT_MISSING", "claim text or additional notes are required")
	ErrEmptyQuery          = newValidation("EMPTY_QUERY", "query is required")
	ErrCredentialRequired  = newValidation("CREDENTIAL_REQUIRED", "an API key for this provider is required")
	ErrMissingGroup        = newValidation("MISSING_GROUP", "zip and demo are required")

	ErrAggregationInconsistent = &Error{Kind: KindAggregation, Code: "AGGREGATION_ERROR", Message: "bias aggregate state is inconsistent"}

	ErrHeatmapUnavailable = &Error{Kind: KindValidation, Code: "HEATMAP_UNAVAILABLE", Message: "heatmap not available"}
)
