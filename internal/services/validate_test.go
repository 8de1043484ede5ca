package services

import (
	"testing"

	"github.com/fixmyward/ward-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     any
		wantMsg string
	}{
		{
			name: "complete signup",
			req:  models.SignupRequest{Username: "asha", FullName: "Asha K", Password: "pw", Role: models.RoleCitizen},
		},
		{
			name:    "blank names",
			req:     models.SignupRequest{Username: "  ", FullName: "", Password: "pw", Role: models.RoleCouncillor},
			wantMsg: "validation failed: username is required; fullName is required",
		},
		{
			name:    "unknown role",
			req:     models.SignupRequest{Username: "a", FullName: "A", Password: "pw", Role: "MAYOR"},
			wantMsg: "validation failed: role must be one of CITIZEN, COUNCILLOR",
		},
		{
			name: "login needs only a username",
			req:  models.LoginRequest{Username: "ghost"},
		},
		{
			name:    "submission without note",
			req:     models.ReportSubmission{Title: "Pothole", Note: "\t"},
			wantMsg: "validation failed: note is required",
		},
		{
			name:    "submission with a link instead of a data URI",
			req:     models.ReportSubmission{Title: "t", Note: "n", Image: "https://example.com/a.png"},
			wantMsg: "validation failed: image must start with data:image/",
		},
		{
			name: "every status is accepted",
			req:  models.StatusUpdate{Status: models.StatusRejected},
		},
		{
			name:    "unknown status",
			req:     models.StatusUpdate{Status: "DONE"},
			wantMsg: "validation failed: status must be one of PENDING, STARTED, COMPLETED, REJECTED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}
