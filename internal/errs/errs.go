package errs

import "errors"

// Доменные сентинель-ошибки для маппинга в HTTP коды в handlers.
var (
	ErrNotFound       = errors.New("record not found")
	ErrRoomRequired   = errors.New("uuid is required")
	ErrRoleRequired   = errors.New("role is required")
	ErrUserRequired   = errors.New("userId is required")
	ErrInvalidRole    = errors.New("invalid role")
	ErrInvalidAction  = errors.New("invalid action")
	ErrEndTsRequired  = errors.New("endTs is required")
	ErrInvalidAmount  = errors.New("totalAmount must be a positive integer")
	ErrItemRequired   = errors.New("itemName is required")
	ErrSignatureCheck = errors.New("CheckMacValue verification failed")
)
