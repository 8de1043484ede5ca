package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestEnricher_RemoteTextVerbatim(t *testing.T) {
	defer goleak.VerifyNone(t)

	gen := &stubGenerator{text: "  A detailed formal report.\n"}
	e := NewEnricher(gen, 0, nopLogger)

	res := e.Describe(context.Background(), "pothole on 5th cross", indiranagar)
	require.NoError(t, res.Err)
	assert.Equal(t, SourceRemote, res.Source)
	assert.Equal(t, "  A detailed formal report.\n", res.Text)

	prompts := gen.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], indiranagar)
	assert.Contains(t, prompts[0], "pothole on 5th cross")
}

func TestEnricher_NetworkFailureFallsBack(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := NewEnricher(&stubGenerator{err: errNetwork}, 0, nopLogger)

	res := e.Describe(context.Background(), "pothole on 5th cross", "Ward 80: Indiranagar")
	assert.Equal(t, SourceFallback, res.Source)
	assert.ErrorIs(t, res.Err, errNetwork)
	assert.Contains(t, res.Text, "Ward 80: Indiranagar")
	assert.Contains(t, res.Text, "pothole on 5th cross")
	assert.Equal(t, FallbackDescription("pothole on 5th cross", "Ward 80: Indiranagar"), res.Text)
}

func TestEnricher_EmptyTextFallsBack(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := NewEnricher(&stubGenerator{text: "   "}, 0, nopLogger)
	res := e.Describe(context.Background(), "broken light", "W")
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, "Formal Report for W: broken light. Immediate attention requested to resolve this civic grievance.", res.Text)
}

func TestEnricher_NoGeneratorFallsBack(t *testing.T) {
	e := NewEnricher(nil, 0, nopLogger)
	req := e.Start(context.Background(), "garbage", "W")

	select {
	case <-req.Done():
	default:
		t.Fatal("request without a generator should be finished when Start returns")
	}
	assert.Equal(t, EnrichmentFailed, req.State())

	res := req.Wait()
	assert.Equal(t, SourceFallback, res.Source)
	assert.Error(t, res.Err)
	assert.Equal(t, FallbackDescription("garbage", "W"), res.Text)
}

// hangingGenerator never answers on its own.
type hangingGenerator struct{}

func (hangingGenerator) GenerateText(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestEnricher_DeadlineFallsBack(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := NewEnricher(hangingGenerator{}, 10*time.Millisecond, nopLogger)
	req := e.Start(context.Background(), "open manhole", indiranagar)

	res := req.Wait()
	assert.Equal(t, EnrichmentFailed, req.State())
	assert.Equal(t, SourceFallback, res.Source)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.Equal(t, FallbackDescription("open manhole", indiranagar), res.Text)
}

func TestEnricher_States(t *testing.T) {
	defer goleak.VerifyNone(t)

	gen := &stubGenerator{text: "ok", release: make(chan struct{})}
	e := NewEnricher(gen, 0, nopLogger)

	var idle EnrichmentRequest
	assert.Equal(t, EnrichmentIdle, idle.State())

	req := e.Start(context.Background(), "note", "W")
	assert.Equal(t, EnrichmentRequesting, req.State())

	close(gen.release)
	<-req.Done()
	assert.Equal(t, EnrichmentSucceeded, req.State())
	assert.Equal(t, "ok", req.Wait().Text)
}

func TestEnricher_CallerCancellationDoesNotAbortCall(t *testing.T) {
	defer goleak.VerifyNone(t)

	gen := &stubGenerator{text: "done anyway", release: make(chan struct{})}
	e := NewEnricher(gen, 0, nopLogger)

	ctx, cancel := context.WithCancel(context.Background())
	req := e.Start(ctx, "note", "W")
	cancel()
	close(gen.release)

	res := req.Wait()
	assert.Equal(t, SourceRemote, res.Source)
	assert.Equal(t, "done anyway", res.Text)
	assert.Len(t, gen.Prompts(), 1)
}

func TestEnrichmentState_String(t *testing.T) {
	assert.Equal(t, "idle", EnrichmentIdle.String())
	assert.Equal(t, "requesting", EnrichmentRequesting.String())
	assert.Equal(t, "succeeded", EnrichmentSucceeded.String())
	assert.Equal(t, "failed", EnrichmentFailed.String())
	assert.Equal(t, "EnrichmentState(9)", EnrichmentState(9).String())
}
