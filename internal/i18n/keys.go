// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyNotFound      = "common.not_found"
	KeyInternalError = "common.internal_error"
	KeyRateLimited   = "common.rate_limited"

	// Search
	KeySearchUpstreamFailed = "search.upstream_failed"
	KeySearchUpstreamStatus = "search.upstream_status"
	KeySearchInvalidQueryID = "search.invalid_query_id"

	// Validation
	KeyValidationFailed   = "validation.failed"
	KeyValidationRequired = "validation.required"
	KeyValidationType     = "validation.type"
	KeyValidationGT       = "validation.gt"
	KeyValidationGTE      = "validation.gte"
	KeyValidationLTE      = "validation.lte"
	KeyValidationPercent  = "validation.percent"
	KeyValidationNumber   = "validation.number"
	KeyValidationInvalid  = "validation.invalid"
)
