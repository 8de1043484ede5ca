package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fixmyward/ward-server/internal/models"
	"github.com/fixmyward/ward-server/internal/storage"
	"go.uber.org/zap"
)

const indiranagar = "Ward 80: Indiranagar"

var nopLogger = zap.NewNop().Sugar()

// stubGenerator answers every prompt with text or err.
type stubGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	release chan struct{}
	prompts []string
}

func (g *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if g.release != nil {
		<-g.release
	}
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return g.text, g.err
}

func (g *stubGenerator) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

var errNetwork = errors.New("dial tcp: network is unreachable")

func newReport(id, ward, citizen string, created time.Time) models.Report {
	return models.Report{
		ID:          id,
		Title:       "Title " + id,
		Description: "Description " + id,
		Location:    models.Location{Lat: cityLat, Lng: cityLng, Address: ward + ", Bengaluru, Karnataka"},
		Ward:        ward,
		Status:      models.StatusPending,
		CitizenID:   citizen,
		CitizenName: "Citizen " + citizen,
		CreatedAt:   created,
		ImageURL:    "https://picsum.photos/seed/" + id + "/600/400",
	}
}

func newRepo() (*ReportRepository, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	return NewReportRepository(store, nopLogger), store
}
