// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeParseError        ErrorCode = "PARSE_ERROR"
	ErrCodeInvalidProfile    ErrorCode = "INVALID_PROFILE"
	ErrCodeStrategyNotFound  ErrorCode = "STRATEGY_NOT_FOUND"
	ErrCodeNoCandidatesFound ErrorCode = "NO_CANDIDATES_FOUND"

	ErrCodeEmbeddingFailed  ErrorCode = "EMBEDDING_FAILED"
	ErrCodeEmbeddingTimeout ErrorCode = "EMBEDDING_TIMEOUT"

	ErrCodeVectorSearchFailed   ErrorCode = "VECTOR_SEARCH_FAILED"
	ErrCodeSearchTimeout        ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound        ErrorCode = "INDEX_NOT_FOUND"
	ErrCodeSearchBackendOffline ErrorCode = "SEARCH_BACKEND_OFFLINE"

	ErrCodeCatalogQueryFailed      ErrorCode = "CATALOG_QUERY_FAILED"
	ErrCodeCatalogConnectionFailed ErrorCode = "CATALOG_CONNECTION_FAILED"
	ErrCodeCatalogQueryTimeout     ErrorCode = "CATALOG_QUERY_TIMEOUT"

	ErrCodeRegionConfigMissing  ErrorCode = "REGION_CONFIG_MISSING"
	ErrCodeTCOCalculationFailed ErrorCode = "TCO_CALCULATION_FAILED"

	ErrCodeLLMTimeout          ErrorCode = "LLM_TIMEOUT"
	ErrCodeRerankParsingFailed ErrorCode = "RERANK_PARSING_FAILED"

	ErrCodeResponseValidationFailed ErrorCode = "RESPONSE_VALIDATION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewEmbeddingFailedError creates a retryable embedding provider error.
func NewEmbeddingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbeddingFailed,
		Message:   "Embedding provider request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmbeddingTimeoutError creates a retryable embedding timeout error.
func NewEmbeddingTimeoutError(model string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbeddingTimeout,
		Message:   "Embedding provider timed out",
		Details:   fmt.Sprintf("model: %s", model),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewVectorSearchFailedError creates a retryable vector search error.
func NewVectorSearchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeVectorSearchFailed,
		Message:   "Vector search request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(index string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Vector search timed out",
		Details:   fmt.Sprintf("index: %s", index),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRegionConfigMissingError creates a non-retryable error for a state with no cost table.
func NewRegionConfigMissingError(state string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegionConfigMissing,
		Message:   "No region expense configuration for state",
		Details:   fmt.Sprintf("state: %s", state),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTCOCalculationFailedError creates a non-retryable cost calculation error.
func NewTCOCalculationFailedError(vehicleID, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTCOCalculationFailed,
		Message:   "Ownership cost calculation failed",
		Details:   fmt.Sprintf("vehicleId: %s, %s", vehicleID, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable LLM timeout error.
func NewLLMTimeoutError(model string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "LLM request timed out",
		Details:   fmt.Sprintf("model: %s", model),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRerankParsingFailedError creates a non-retryable rerank response error.
// Callers are expected to fall back to the pre-rerank ordering instead of failing the job.
func NewRerankParsingFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRerankParsingFailed,
		Message:   "LLM rerank response could not be parsed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewResponseValidationFailedError creates a non-retryable output validation error.
func NewResponseValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseValidationFailed,
		Message:   "Recommendation payload failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExternalServiceError is the generic constructor for infrastructure
// failures that have no domain code.
func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes (identical by convention).
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeParseError:               "PARSE_ERROR",
	ErrCodeInvalidProfile:           "INVALID_PROFILE",
	ErrCodeStrategyNotFound:         "STRATEGY_NOT_FOUND",
	ErrCodeNoCandidatesFound:        "NO_CANDIDATES_FOUND",
	ErrCodeEmbeddingFailed:          "EMBEDDING_FAILED",
	ErrCodeEmbeddingTimeout:         "EMBEDDING_TIMEOUT",
	ErrCodeVectorSearchFailed:       "VECTOR_SEARCH_FAILED",
	ErrCodeSearchTimeout:            "SEARCH_TIMEOUT",
	ErrCodeIndexNotFound:            "INDEX_NOT_FOUND",
	ErrCodeSearchBackendOffline:     "SEARCH_BACKEND_OFFLINE",
	ErrCodeCatalogQueryFailed:       "CATALOG_QUERY_FAILED",
	ErrCodeCatalogConnectionFailed:  "CATALOG_CONNECTION_FAILED",
	ErrCodeCatalogQueryTimeout:      "CATALOG_QUERY_TIMEOUT",
	ErrCodeRegionConfigMissing:      "REGION_CONFIG_MISSING",
	ErrCodeTCOCalculationFailed:     "TCO_CALCULATION_FAILED",
	ErrCodeLLMTimeout:               "LLM_TIMEOUT",
	ErrCodeRerankParsingFailed:      "RERANK_PARSING_FAILED",
	ErrCodeResponseValidationFailed: "RESPONSE_VALIDATION_FAILED",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeEmbeddingFailed,
		ErrCodeVectorSearchFailed,
		ErrCodeSearchBackendOffline,
		ErrCodeCatalogQueryFailed,
		ErrCodeCatalogConnectionFailed:
		return 3 // Retryable technical errors

	case ErrCodeEmbeddingTimeout,
		ErrCodeSearchTimeout,
		ErrCodeCatalogQueryTimeout:
		return 2 // Partial retry for timeouts

	case ErrCodeLLMTimeout:
		return 1 // As per BPMN boundary event

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PROFILE") || strings.Contains(codeStr, "PARSE"):
		return "INPUT"
	case strings.Contains(codeStr, "STRATEGY") || strings.Contains(codeStr, "REGION"):
		return "REGISTRY"
	case strings.Contains(codeStr, "EMBEDDING") || strings.Contains(codeStr, "LLM") || strings.Contains(codeStr, "RERANK"):
		return "AI"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX") || strings.Contains(codeStr, "CANDIDATES"):
		return "SEARCH"
	case strings.Contains(codeStr, "CATALOG"):
		return "DATABASE"
	case strings.Contains(codeStr, "TCO"):
		return "PRICING"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
