package services

import (
	"context"

	"github.com/fixmyward/ward-server/internal/models"
	"github.com/google/uuid"
)

// Signup validates a signup form and registers the new account under a
// fresh id.
func (s *IdentityService) Signup(ctx context.Context, req models.SignupRequest) (models.User, error) {
	if err := Validate(req); err != nil {
		return models.User{}, err
	}
	if req.Password != req.ConfirmPassword {
		return models.User{}, ErrPasswordMismatch
	}

	return s.Register(ctx, models.User{
		ID:       uuid.NewString(),
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		Ward:     req.Ward,
		FullName: req.FullName,
	})
}
