package aws

import (
	"errors"

	"github.com/aws/smithy-go"
)

// ErrorCode returns the AWS API error code carried by err, or "" if err is
// not an API error.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// IsAccessDenied checks if err is an authorization failure.
func IsAccessDenied(err error) bool {
	return hasErrorCode(err, "AccessDeniedException", "AccessDenied", "UnauthorizedOperation")
}

// IsThrottled checks if err indicates the request was rate limited.
func IsThrottled(err error) bool {
	return hasErrorCode(err, "ThrottlingException", "Throttling", "TooManyRequestsException")
}

// IsNotFound checks if err indicates the requested resource does not exist.
func IsNotFound(err error) bool {
	return hasErrorCode(err,
		"ResourceNotFoundException",
		"OrganizationalUnitNotFoundException",
		"ParentNotFoundException",
	)
}

// IsConflict checks if err indicates a concurrent modification, such as a
// landing zone update racing another operation.
func IsConflict(err error) bool {
	return hasErrorCode(err, "ConflictException", "ConcurrentModificationException")
}

// Reason returns a short classification of err for log context: one of
// "access-denied", "throttled", "not-found", "conflict", or "" when the error
// falls in none of these classes.
func Reason(err error) string {
	switch {
	case IsAccessDenied(err):
		return "access-denied"
	case IsThrottled(err):
		return "throttled"
	case IsNotFound(err):
		return "not-found"
	case IsConflict(err):
		return "conflict"
	}
	return ""
}

func hasErrorCode(err error, codes ...string) bool {
	code := ErrorCode(err)
	if code == "" {
		return false
	}
	for _, c := range codes {
		if code == c {
			return true
		}
	}
	return false
}
