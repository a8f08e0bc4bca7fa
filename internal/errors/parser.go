package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a classified store-layer failure.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError classifies a repository error into an error code and a message
// safe to show to callers. Sensitive driver detail stays out of the
// response.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "internal server error",
		}
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// Postgres constraint classes.

	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		if strings.Contains(errStr, "email") || strings.Contains(errStr, "idx_users_email") {
			return ErrorInfo{Code: ResourceAlreadyExists, Message: "email is already registered"}
		}
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "record already exists"}
	}

	if strings.Contains(errStr, "foreign key constraint") {
		if strings.Contains(errStr, "product_id") {
			return ErrorInfo{Code: ProductNotFound, Message: "listing does not exist"}
		}
		return ErrorInfo{Code: ResourceNotFound, Message: "referenced record does not exist"}
	}

	if strings.Contains(errStr, "null value") && strings.Contains(errStr, "not-null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "a required field is missing"}
	}

	// Connectivity failures surface as retryable 500s rather than hanging.
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "storage temporarily unavailable, please retry",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "product") || strings.Contains(contextLower, "listing") {
		return "listing not found"
	}
	if strings.Contains(contextLower, "user") || strings.Contains(contextLower, "account") {
		return "user not found"
	}
	if strings.Contains(contextLower, "comment") {
		return "comment not found"
	}

	return "requested record not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "creation failed, please retry later"
	}
	if strings.Contains(contextLower, "update") || strings.Contains(contextLower, "review") {
		return "update failed, please retry later"
	}
	if strings.Contains(contextLower, "delete") {
		return "deletion failed, please retry later"
	}

	return "internal server error, please retry later"
}
