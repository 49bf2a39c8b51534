package service

import "errors"

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrNotAdmin           = errors.New("this account does not have administrator access")
	ErrForbidden          = errors.New("administrator access required")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidStatus      = errors.New("invalid account status")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrLessonExists       = errors.New("a lesson with this id already exists")
	ErrNoQuiz             = errors.New("lesson has no quiz")
	ErrAlreadySeeded      = errors.New("curriculum already present")
	ErrClassNotFound      = errors.New("class not found")
	ErrRoomClosed         = errors.New("no live class is running")
	ErrInactiveAccount    = errors.New("account is not active")
	ErrInvalidTicket      = errors.New("invalid room ticket")
	ErrEmptyQuestion      = errors.New("question is required")
	ErrInvalidRole        = errors.New("invalid account role")
)
