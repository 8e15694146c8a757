package database

import "errors"

// Sentinel errors returned by store methods. Controllers translate them to
// HTTP statuses; none of them leave partially applied state behind because
// every mutating store method runs in a single transaction.
var (
	ErrPostNotFound        = errors.New("post not found")
	ErrRecruitingNotFound  = errors.New("recruiting not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrFormNotFound        = errors.New("form not found")

	// ErrUnauthorized means the requester does not own the resource
	ErrUnauthorized = errors.New("requester does not own this resource")

	// ErrSchedulingLocked means the post already published its interview
	// times (TIME_SET) and the slot set can no longer be redefined
	ErrSchedulingLocked = errors.New("interview times already published")

	// ErrAlreadyApplied means the applicant already has an application for
	// the recruiting
	ErrAlreadyApplied = errors.New("applicant already applied to this recruiting")

	// ErrInvalidSlot means a slot spec has a non-positive capacity or a
	// window that does not end after it starts
	ErrInvalidSlot = errors.New("invalid meeting time slot")

	// ErrMeetingTimeFull means the targeted slot is at capacity
	ErrMeetingTimeFull = errors.New("meeting time is at capacity")

	// ErrInvalidResult means a result transition target is not allowed
	ErrInvalidResult = errors.New("invalid result transition")
)
