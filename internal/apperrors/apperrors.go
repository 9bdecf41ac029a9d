package apperrors

import "errors"

var (
	// Course errors
	CourseNotFoundError = errors.New("course not found")
	UnknownLectureError = errors.New("lecture is not part of the course content")
	InvalidRangeError   = errors.New("value outside of the permitted range")

	// User errors
	UserNotFoundError = errors.New("user not found")
	NotEnrolledError  = errors.New("user is not enrolled in the course")

	// Purchase errors
	PurchaseNotFoundError = errors.New("purchase not found")
	// AlreadyProcessedError marks a duplicate completion event. It is
	// absorbed by the enrollment ledger and never surfaced to callers.
	AlreadyProcessedError = errors.New("purchase already processed")
)
