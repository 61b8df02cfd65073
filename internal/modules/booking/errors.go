package booking

import "errors"

var (
	ErrValidation              = errors.New("validation error")
	ErrRoomNotFound            = errors.New("room not found")
	ErrNotFound                = errors.New("booking not found")
	ErrAddOnNotFound           = errors.New("add-on not found")
	ErrNotAvailable            = errors.New("room not available for the selected dates")
	ErrCommitConflict          = errors.New("booking conflict at commit time")
	ErrNotRetryable            = errors.New("booking is not in a retryable state")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
