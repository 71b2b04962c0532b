package domain

import (
	"net/http"

	apperrors "github.com/spec-kit/room-reservation/pkg/util"
)

// Booking errors.
var (
	ErrInvalidInterval     = apperrors.NewDomainError("INVALID_INTERVAL", "end time must be after start time", http.StatusBadRequest, nil)
	ErrPastDate            = apperrors.NewDomainError("PAST_DATE", "cannot book a date in the past", http.StatusBadRequest, nil)
	ErrOutsideOpeningHours = apperrors.NewDomainError("OUTSIDE_OPENING_HOURS", "requested slot is outside opening hours", http.StatusBadRequest, nil)
	ErrRoomUnavailable     = apperrors.NewDomainError("ROOM_UNAVAILABLE", "room is not available for booking", http.StatusConflict, nil)
	ErrSchedulingConflict  = apperrors.NewDomainError("SCHEDULING_CONFLICT", "room is already booked for this slot", http.StatusConflict, nil)
	ErrNotCancelable       = apperrors.NewDomainError("NOT_CANCELABLE", "reservation cannot be cancelled", http.StatusConflict, nil)
	ErrInvalidTransition   = apperrors.NewDomainError("INVALID_TRANSITION", "reservation is not pending", http.StatusConflict, nil)
	ErrInvalidRoom         = apperrors.NewDomainError("VALIDATION_FAILED", "room name and positive capacity required", http.StatusBadRequest, nil)
)

// Account errors.
var (
	ErrInvalidCredentials = apperrors.NewDomainError("INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized, nil)
	ErrPendingApproval    = apperrors.NewDomainError("PENDING_APPROVAL", "account is awaiting administrator approval", http.StatusForbidden, nil)
	ErrDuplicateEmail     = apperrors.NewDomainError("DUPLICATE_EMAIL", "email already registered", http.StatusConflict, nil)
	ErrInvalidRole        = apperrors.NewDomainError("VALIDATION_FAILED", "role must be delegate or instructor", http.StatusBadRequest, nil)
	ErrAdminRequired      = apperrors.NewDomainError("FORBIDDEN", "administrator role required", http.StatusForbidden, nil)
)
