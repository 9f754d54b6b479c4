/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Course and Certificate Business Logic Errors
	ErrNotCompleted:    {Code: ErrNotCompleted, Message: "Cannot generate: student has not completed the course."},
	ErrNotGenerated:    {Code: ErrNotGenerated, Message: "Certificate not generated yet for this student."},
	ErrStudentNotFound: {Code: ErrStudentNotFound, Message: "Student not found."},

	// 3xxx: User and Session Errors
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Invalid credentials."},
	ErrValidationFailed:   {Code: ErrValidationFailed, Message: "Please fill all fields."},
	ErrDuplicateUsername:  {Code: ErrDuplicateUsername, Message: "Username already exists. Choose another."},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrForbidden:          {Code: ErrForbidden, Message: "This action is not available for your role.", Status: http.StatusForbidden},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
