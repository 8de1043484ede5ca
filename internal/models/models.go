// Package models defines the data structures used across the application.
// Field names match the persisted JSON layout of the users and reports
// collections.
package models

import (
	"encoding/json"
	"time"
)

// Role is the fixed role a user picks at signup.
type Role string

const (
	RoleCitizen    Role = "CITIZEN"
	RoleCouncillor Role = "COUNCILLOR"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCitizen || r == RoleCouncillor
}

// ReportStatus is the triage state of a report.
type ReportStatus string

const (
	StatusPending   ReportStatus = "PENDING"
	StatusStarted   ReportStatus = "STARTED"
	StatusCompleted ReportStatus = "COMPLETED"
	StatusRejected  ReportStatus = "REJECTED"
)

// Statuses lists every report status in dashboard order.
var Statuses = []ReportStatus{StatusPending, StatusStarted, StatusCompleted, StatusRejected}

// Valid reports whether s is one of the four known statuses.
func (s ReportStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// User is a registered citizen or councillor.
// Password is stored in plain text and omitted on the session copy.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
	Ward     string `json:"ward,omitempty"`
	FullName string `json:"fullName"`
}

// Stripped returns a copy of u without the password.
func (u User) Stripped() User {
	u.Password = ""
	return u
}

// Location is the opaque location attached to a report.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// Report is a citizen-submitted civic issue. Status is the only field that
// changes after creation.
type Report struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Location    Location     `json:"location"`
	Ward        string       `json:"ward"`
	Status      ReportStatus `json:"status"`
	CitizenID   string       `json:"citizenId"`
	CitizenName string       `json:"citizenName"`
	CreatedAt   time.Time    `json:"createdAt"`
	ImageURL    string       `json:"imageUrl,omitempty"`
}

// UnmarshalJSON decodes a report, reading a createdAt that is not an
// RFC 3339 string as the zero time so one bad date does not void the
// whole collection.
func (r *Report) UnmarshalJSON(data []byte) error {
	type plain Report
	var aux struct {
		plain
		CreatedAt json.RawMessage `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Report(aux.plain)
	r.CreatedAt = time.Time{}

	var s string
	if json.Unmarshal(aux.CreatedAt, &s) == nil {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			r.CreatedAt = t
		}
	}
	return nil
}

// Ward is an entry of the static ward directory.
type Ward struct {
	Name       string `json:"name" yaml:"name"`
	Councillor string `json:"councillor" yaml:"councillor"`
	Area       string `json:"area" yaml:"area"`
	Slug       string `json:"slug" yaml:"-"`
}

// WardSummary aggregates the reports of one ward for the councillor dashboard.
type WardSummary struct {
	Ward      string `json:"ward"`
	Total     int    `json:"total"`
	Pending   int    `json:"pending"`
	Started   int    `json:"started"`
	Completed int    `json:"completed"`
	Rejected  int    `json:"rejected"`
	Citizens  int    `json:"citizens"`
}

// SignupRequest is the request body for creating an account.
// ConfirmPassword is compared, not required, so a missing one reads as a
// mismatch.
type SignupRequest struct {
	Username        string `json:"username" validate:"required,notblank"`
	FullName        string `json:"fullName" validate:"required,notblank"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            Role   `json:"role" validate:"required,oneof=CITIZEN COUNCILLOR"`
	Ward            string `json:"ward"`
}

// LoginRequest is the request body for signing in. Only the username is
// checked up front; the rest is judged by authentication in order.
type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// LoginResponse carries the session user and its bearer token
type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// ReportSubmission is the request body for filing a new report.
// Note is the short free-text description that gets enriched.
type ReportSubmission struct {
	Title string `json:"title" validate:"required,notblank"`
	Note  string `json:"note" validate:"required,notblank"`
	Image string `json:"image,omitempty" validate:"omitempty,startswith=data:image/"` // data URI
}

// StatusUpdate is the request body for changing a report's status
type StatusUpdate struct {
	Status ReportStatus `json:"status" validate:"required,oneof=PENDING STARTED COMPLETED REJECTED"`
}

// CouncillorDashboard is the councillor dashboard header plus counters
type CouncillorDashboard struct {
	Ward    *Ward       `json:"ward,omitempty"`
	Summary WardSummary `json:"summary"`
}

// HealthStatus represents the server health check response
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime,omitempty"`
	Storage string `json:"storage,omitempty"`
	Backend string `json:"backend,omitempty"`
}
