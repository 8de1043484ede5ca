package services

import (
	"context"
	"slices"
	"sync"

	"github.com/fixmyward/ward-server/internal/models"
	"github.com/fixmyward/ward-server/internal/storage"
	"go.uber.org/zap"
)

// ReportRepository gives filtered views over the reports collection and
// the two mutations it supports: append and status update.
type ReportRepository struct {
	store  storage.Store
	logger *zap.SugaredLogger
	mu     sync.Mutex // serializes read-modify-write cycles in this process
}

// NewReportRepository creates a new report repository
func NewReportRepository(store storage.Store, logger *zap.SugaredLogger) *ReportRepository {
	return &ReportRepository{store: store, logger: logger}
}

func (r *ReportRepository) all(ctx context.Context) ([]models.Report, error) {
	return storage.LoadCollection[models.Report](ctx, r.store, storage.ReportsKey, r.logger)
}

// ListByCitizen returns the citizen's reports, newest first.
func (r *ReportRepository) ListByCitizen(ctx context.Context, citizenID string) ([]models.Report, error) {
	reports, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	return newestFirst(filter(reports, func(rep models.Report) bool {
		return rep.CitizenID == citizenID
	})), nil
}

// ListByWard returns the reports filed in exactly this ward, newest first.
func (r *ReportRepository) ListByWard(ctx context.Context, ward string) ([]models.Report, error) {
	reports, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	return newestFirst(filter(reports, func(rep models.Report) bool {
		return rep.Ward == ward
	})), nil
}

// Get returns the report with the given id.
func (r *ReportRepository) Get(ctx context.Context, id string) (models.Report, error) {
	reports, err := r.all(ctx)
	if err != nil {
		return models.Report{}, err
	}
	for _, rep := range reports {
		if rep.ID == id {
			return rep, nil
		}
	}
	return models.Report{}, ErrReportNotFound
}

// Create appends report. Ids are not checked for duplicates.
func (r *ReportRepository) Create(ctx context.Context, report models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reports, err := r.all(ctx)
	if err != nil {
		return err
	}
	reports = append(reports, report)
	if err := storage.SaveCollection(ctx, r.store, storage.ReportsKey, reports); err != nil {
		return err
	}

	r.logger.Infow("Report created",
		"id", report.ID,
		"ward", report.Ward,
		"citizen_id", report.CitizenID,
	)
	return nil
}

// UpdateStatus overwrites the status of report id and nothing else.
// An unknown id is silently ignored and nothing is written.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reports, err := r.all(ctx)
	if err != nil {
		return err
	}

	idx := slices.IndexFunc(reports, func(rep models.Report) bool { return rep.ID == id })
	if idx == -1 {
		r.logger.Debugw("Status update for unknown report ignored", "id", id)
		return nil
	}

	prev := reports[idx].Status
	reports[idx].Status = status
	if err := storage.SaveCollection(ctx, r.store, storage.ReportsKey, reports); err != nil {
		return err
	}

	r.logger.Infow("Report status updated",
		"id", id,
		"from", prev,
		"to", status,
	)
	return nil
}

// FilterByStatus keeps the reports in the given status; an empty status
// keeps everything.
func FilterByStatus(reports []models.Report, status models.ReportStatus) []models.Report {
	if status == "" {
		return reports
	}
	return filter(reports, func(rep models.Report) bool { return rep.Status == status })
}

// Summarize counts reports per status and distinct reporting citizens.
func Summarize(ward string, reports []models.Report) models.WardSummary {
	sum := models.WardSummary{Ward: ward, Total: len(reports)}
	citizens := make(map[string]struct{})
	for _, rep := range reports {
		switch rep.Status {
		case models.StatusPending:
			sum.Pending++
		case models.StatusStarted:
			sum.Started++
		case models.StatusCompleted:
			sum.Completed++
		case models.StatusRejected:
			sum.Rejected++
		}
		citizens[rep.CitizenID] = struct{}{}
	}
	sum.Citizens = len(citizens)
	return sum
}

func filter(reports []models.Report, keep func(models.Report) bool) []models.Report {
	out := make([]models.Report, 0, len(reports))
	for _, rep := range reports {
		if keep(rep) {
			out = append(out, rep)
		}
	}
	return out
}

// newestFirst sorts by createdAt descending; ties keep collection order.
func newestFirst(reports []models.Report) []models.Report {
	slices.SortStableFunc(reports, func(a, b models.Report) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return reports
}
