package services

import (
	"errors"
	"fmt"

	"github.com/fixmyward/ward-server/internal/models"
)

// Messages are shown inline on the form that failed, so they are written
// for the person filling it in.
var (
	ErrUsernameTaken    = errors.New("Username already exists")
	ErrUserNotFound     = errors.New("Username not found. Please sign up.")
	ErrBadCredentials   = errors.New("Incorrect password. Please try again.")
	ErrRoleMismatch     = errors.New("role mismatch")
	ErrPasswordMismatch = errors.New("Passwords do not match")

	ErrValidation     = errors.New("validation failed")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidStatus  = errors.New("invalid report status")
	ErrImageTooLarge  = errors.New("File size too large. Please upload an image under 5MB.")
	ErrReportNotFound = errors.New("report not found")
)

// RoleMismatchError is returned when the credentials are right but the
// account was registered under a different role.
type RoleMismatchError struct {
	Actual models.Role
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("This account is registered as a %s. Please select correct role.", e.Actual)
}

func (e *RoleMismatchError) Is(target error) bool {
	return target == ErrRoleMismatch
}
