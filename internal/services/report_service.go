package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fixmyward/ward-server/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultWard files reports from citizens who never picked a ward.
	DefaultWard = "General"

	maxImageBytes = 5 * 1024 * 1024

	// Reports are pinned to the city centre; there is no geolocation.
	cityLat = 12.9716
	cityLng = 77.5946
)

// ReportService runs the citizen submission and councillor triage flows on
// top of the repository.
type ReportService struct {
	repo     *ReportRepository
	enricher *Enricher
	logger   *zap.SugaredLogger
	now      func() time.Time
	newID    func() string
}

// NewReportService creates a new report service
func NewReportService(repo *ReportRepository, enricher *Enricher, logger *zap.SugaredLogger) *ReportService {
	return &ReportService{
		repo:     repo,
		enricher: enricher,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Submit enriches the citizen's note and files a new PENDING report in the
// citizen's ward. It blocks for the duration of the enrichment call, which
// has no deadline unless the enricher was given one.
func (s *ReportService) Submit(ctx context.Context, citizen models.User, sub models.ReportSubmission) (models.Report, error) {
	if citizen.Role != models.RoleCitizen {
		return models.Report{}, fmt.Errorf("%w: only citizens can file reports", ErrForbidden)
	}
	if err := Validate(sub); err != nil {
		return models.Report{}, err
	}
	if err := checkImage(sub.Image); err != nil {
		return models.Report{}, err
	}

	ward := citizen.Ward
	if ward == "" {
		ward = DefaultWard
	}

	desc := s.enricher.Describe(ctx, sub.Note, ward)

	id := s.newID()
	image := sub.Image
	if image == "" {
		image = fmt.Sprintf("https://picsum.photos/seed/%s/600/400", id)
	}

	report := models.Report{
		ID:          id,
		Title:       sub.Title,
		Description: desc.Text,
		Location: models.Location{
			Lat:     cityLat,
			Lng:     cityLng,
			Address: ward + ", Bengaluru, Karnataka",
		},
		Ward:        ward,
		Status:      models.StatusPending,
		CitizenID:   citizen.ID,
		CitizenName: citizen.FullName,
		CreatedAt:   s.now().UTC(),
		ImageURL:    image,
	}

	// Persisted even if the caller has gone away.
	if err := s.repo.Create(context.WithoutCancel(ctx), report); err != nil {
		return models.Report{}, err
	}

	s.logger.Infow("Report submitted",
		"id", report.ID,
		"ward", ward,
		"description_source", desc.Source,
	)
	return report, nil
}

// Triage sets the status of a report in the councillor's own ward.
// Reports of other wards are refused; an unknown id is a silent no-op.
func (s *ReportService) Triage(ctx context.Context, councillor models.User, id string, status models.ReportStatus) error {
	if councillor.Role != models.RoleCouncillor {
		return fmt.Errorf("%w: only councillors can update report status", ErrForbidden)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	report, err := s.repo.Get(ctx, id)
	switch {
	case err == nil:
		if report.Ward != councillor.Ward {
			return fmt.Errorf("%w: report belongs to %s", ErrForbidden, report.Ward)
		}
	case !errors.Is(err, ErrReportNotFound):
		return err
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

// WardReports lists the councillor's ward, optionally narrowed to one status.
func (s *ReportService) WardReports(ctx context.Context, councillor models.User, status models.ReportStatus) ([]models.Report, error) {
	if councillor.Role != models.RoleCouncillor {
		return nil, fmt.Errorf("%w: only councillors can view ward reports", ErrForbidden)
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	reports, err := s.repo.ListByWard(ctx, councillor.Ward)
	if err != nil {
		return nil, err
	}
	return FilterByStatus(reports, status), nil
}

// WardSummary counts the councillor's ward reports.
func (s *ReportService) WardSummary(ctx context.Context, councillor models.User) (models.WardSummary, error) {
	reports, err := s.WardReports(ctx, councillor, "")
	if err != nil {
		return models.WardSummary{}, err
	}
	return Summarize(councillor.Ward, reports), nil
}

// MyReports lists the citizen's own reports.
func (s *ReportService) MyReports(ctx context.Context, citizen models.User) ([]models.Report, error) {
	return s.repo.ListByCitizen(ctx, citizen.ID)
}

func checkImage(image string) error {
	if image == "" {
		return nil
	}
	_, payload, ok := strings.Cut(image, ",")
	if !ok {
		return fmt.Errorf("%w: malformed image data URI", ErrValidation)
	}
	// Padding carries no data.
	payload = strings.TrimRight(payload, "=")
	if base64.RawStdEncoding.DecodedLen(len(payload)) > maxImageBytes {
		return ErrImageTooLarge
	}
	return nil
}
