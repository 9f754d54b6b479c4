/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in responses sent to the browser UI.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Course and Certificate Business Logic Errors
const (
	// ErrNotCompleted indicates a certificate was requested for a student who
	// has not completed the course.
	ErrNotCompleted = 2101

	// ErrNotGenerated indicates the requested certificate has not been generated yet.
	ErrNotGenerated = 2102

	// ErrStudentNotFound indicates that the target student id did not resolve to any account.
	ErrStudentNotFound = 2103
)

// 3xxx: User and Session Errors
const (
	// ErrInvalidCredentials indicates that the supplied username/password pair matched no account.
	ErrInvalidCredentials = 3101

	// ErrValidationFailed indicates that a required registration field was empty after trimming.
	ErrValidationFailed = 3102

	// ErrDuplicateUsername indicates that the requested username is already taken.
	ErrDuplicateUsername = 3103

	// ErrUnauthorized indicates that the request carries no valid session token.
	ErrUnauthorized = 3104

	// ErrForbidden indicates that the session role does not permit the requested operation.
	ErrForbidden = 3105
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
