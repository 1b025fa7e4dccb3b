// Package errors provides structured error handling for helpsek.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Source data and snapshot errors
//   - 3XX: Index lifecycle errors
//   - 4XX: Validation errors
//   - 5XX: Internal and upstream-service errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryData indicates source record and snapshot errors.
	CategoryData Category = "DATA"
	// CategoryIndex indicates collection index lifecycle errors.
	CategoryIndex Category = "INDEX"
	// CategoryValidation indicates request validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Data errors (200-299)
	ErrCodeSourceNotFound  = "ERR_201_SOURCE_NOT_FOUND"
	ErrCodeRecordMalformed = "ERR_202_RECORD_MALFORMED"
	ErrCodeSnapshotCorrupt = "ERR_203_SNAPSHOT_CORRUPT"

	// Index errors (300-399)
	ErrCodeIndexUnavailable = "ERR_301_INDEX_UNAVAILABLE"
	ErrCodeIndexFailed      = "ERR_302_INDEX_FAILED"

	// Validation errors (400-499)
	ErrCodeInvalidInput      = "ERR_401_INVALID_INPUT"
	ErrCodeQueryEmpty        = "ERR_402_QUERY_EMPTY"
	ErrCodeDimensionMismatch = "ERR_403_DIMENSION_MISMATCH"

	// Internal errors (500-599)
	ErrCodeInternal         = "ERR_501_INTERNAL"
	ErrCodeEmbeddingFailed  = "ERR_502_EMBEDDING_FAILED"
	ErrCodeGenerationFailed = "ERR_503_GENERATION_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryData
	case '3':
		return CategoryIndex
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// isRetryableCode reports whether the failed operation may be retried.
// Only the generation call qualifies; retries for it belong to the
// caller, never to this package.
func isRetryableCode(code string) bool {
	return code == ErrCodeGenerationFailed
}
