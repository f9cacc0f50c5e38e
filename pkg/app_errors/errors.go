package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound              = errors.New("event not found")
	ErrUserNotFound               = errors.New("user not found")
	ErrParticipationNotFound      = errors.New("participation not found")
	ErrParticipationExists        = errors.New("participation already exists")
	ErrNotificationNotFound       = errors.New("notification not found")
	ErrEventNotAvailable          = errors.New("event not available")
	ErrForbiddenSelfParticipation = errors.New("organizer cannot participate in own event")
	ErrNotOrganizer               = errors.New("only the organizer can perform this action")
	ErrInvalidStatusTransition    = errors.New("invalid participation status transition")
	ErrUnauthorized               = errors.New("unauthorized")
	ErrInvalidInput               = errors.New("invalid input")
	ErrValidation                 = errors.New("validation failed")
)

// ValidationError carries the offending field and the message id shown to the user.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Field     string
	MessageID string
}

func NewValidationError(field, messageID string) error {
	return &ValidationError{Field: field, MessageID: messageID}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrValidation.Error(), e.Field, e.MessageID)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
