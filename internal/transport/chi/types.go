package chi

// ErrorCode is a machine-readable error code returned to clients.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest           ErrorCode = "bad_request"
	CodeUnauthorized         ErrorCode = "unauthorized"
	CodeValidationFailed     ErrorCode = "validation_failed"
	CodeNotFound             ErrorCode = "not_found"
	CodeSearchUnavailable    ErrorCode = "search_unavailable"
	CodeDirectoryUnavailable ErrorCode = "directory_unavailable"
	CodeTimeout              ErrorCode = "timeout"
	CodeInternalError        ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// EntryResponse is a content entry.
type EntryResponse struct {
	ID        int64  `json:"id"`
	ClassName string `json:"class_name"`
	ClassPK   int64  `json:"class_pk"`
	GroupID   int64  `json:"group_id"`
	CompanyID int64  `json:"company_id"`
	Title     string `json:"title"`
	ViewCount int64  `json:"view_count"`
	Modified  string `json:"modified"`
}

// SelectionResponse is the body of GET /v1/groups/{groupID}/selection.
type SelectionResponse struct {
	Provider string          `json:"provider"`
	Source   string          `json:"source"`
	Entries  []EntryResponse `json:"entries"`
}

// EntryListResponse is the body of GET /v1/entries/top-viewed.
type EntryListResponse struct {
	Entries []EntryResponse `json:"entries"`
}

// CountResponse is the body of GET /v1/companies/{companyID}/entries/count.
type CountResponse struct {
	Count int `json:"count"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
