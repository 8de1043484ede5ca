package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// TextGenerator turns a prompt into text. GenAIGenerator is the production
// implementation.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GenAIGenerator calls a Gemini model through google.golang.org/genai.
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

// NewGenAIGenerator creates a Gemini-backed generator.
func NewGenAIGenerator(ctx context.Context, apiKey, model string) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-3-flash-preview"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIGenerator{client: client, model: model}, nil
}

// GenerateText sends prompt as a single user turn and returns the reply text.
func (g *GenAIGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	if resp == nil {
		return "", errors.New("GenAI returned no response")
	}
	return resp.Text(), nil
}

// Model returns the configured model name.
func (g *GenAIGenerator) Model() string { return g.model }

// EnrichmentState tracks one enrichment request.
type EnrichmentState int32

const (
	EnrichmentIdle EnrichmentState = iota
	EnrichmentRequesting
	EnrichmentSucceeded
	EnrichmentFailed
)

func (s EnrichmentState) String() string {
	switch s {
	case EnrichmentIdle:
		return "idle"
	case EnrichmentRequesting:
		return "requesting"
	case EnrichmentSucceeded:
		return "succeeded"
	case EnrichmentFailed:
		return "failed"
	}
	return fmt.Sprintf("EnrichmentState(%d)", int32(s))
}

// EnrichmentSource says where a description came from.
type EnrichmentSource string

const (
	SourceRemote   EnrichmentSource = "remote"
	SourceFallback EnrichmentSource = "fallback"
)

// EnrichmentResult always carries usable Text. Err records why the
// fallback was used and is only meant for logging.
type EnrichmentResult struct {
	Text   string
	Source EnrichmentSource
	Err    error
}

// EnrichmentRequest is a single outstanding enrichment call.
type EnrichmentRequest struct {
	state  atomic.Int32
	done   chan struct{}
	result EnrichmentResult
}

// State reports where the request is in Idle → Requesting → Succeeded|Failed.
func (r *EnrichmentRequest) State() EnrichmentState {
	return EnrichmentState(r.state.Load())
}

// Done is closed once the request has succeeded or failed.
func (r *EnrichmentRequest) Done() <-chan struct{} { return r.done }

// Wait blocks until the request finishes and returns its result.
func (r *EnrichmentRequest) Wait() EnrichmentResult {
	<-r.done
	return r.result
}

func (r *EnrichmentRequest) finish(res EnrichmentResult) {
	r.result = res
	if res.Source == SourceRemote {
		r.state.Store(int32(EnrichmentSucceeded))
	} else {
		r.state.Store(int32(EnrichmentFailed))
	}
	close(r.done)
}

// Enricher expands a short citizen note into a formal report description.
// It never fails: any problem with the remote call yields the fallback text.
type Enricher struct {
	gen     TextGenerator
	timeout time.Duration
	logger  *zap.SugaredLogger
}

// NewEnricher creates an enricher. A nil gen means every request uses the
// fallback. A zero timeout leaves the call without a deadline.
func NewEnricher(gen TextGenerator, timeout time.Duration, logger *zap.SugaredLogger) *Enricher {
	return &Enricher{gen: gen, timeout: timeout, logger: logger}
}

// Start launches the request. The call is detached from ctx cancellation
// and always runs to completion; a caller that goes away just never reads
// the result. Without a generator the request passes through Requesting and
// fails before Start returns.
func (e *Enricher) Start(ctx context.Context, note, ward string) *EnrichmentRequest {
	req := &EnrichmentRequest{done: make(chan struct{})}
	req.state.Store(int32(EnrichmentRequesting))

	if e.gen == nil {
		req.finish(EnrichmentResult{
			Text:   FallbackDescription(note, ward),
			Source: SourceFallback,
			Err:    errors.New("no text generator configured"),
		})
		return req
	}

	callCtx := context.WithoutCancel(ctx)

	go func() {
		var cancel context.CancelFunc = func() {}
		if e.timeout > 0 {
			callCtx, cancel = context.WithTimeout(callCtx, e.timeout)
		}
		defer cancel()

		text, err := e.gen.GenerateText(callCtx, buildPrompt(note, ward))
		if err == nil && strings.TrimSpace(text) == "" {
			err = errors.New("empty text in response")
		}
		if err != nil {
			e.logger.Warnw("AI enrichment failed, using fallback", "ward", ward, "error", err)
			req.finish(EnrichmentResult{
				Text:   FallbackDescription(note, ward),
				Source: SourceFallback,
				Err:    err,
			})
			return
		}
		req.finish(EnrichmentResult{Text: text, Source: SourceRemote})
	}()

	return req
}

// Describe runs a request and waits for it.
func (e *Enricher) Describe(ctx context.Context, note, ward string) EnrichmentResult {
	return e.Start(ctx, note, ward).Wait()
}

// FallbackDescription is the templated description used whenever the
// remote call does not produce text.
func FallbackDescription(note, ward string) string {
	return fmt.Sprintf("Formal Report for %s: %s. Immediate attention requested to resolve this civic grievance.", ward, note)
}

func buildPrompt(note, ward string) string {
	return fmt.Sprintf(`Context: A citizen in %s, Bengaluru is reporting a local issue.
User input: %q
Task: Generate a professional, detailed, and formal civic report description for the ward councillor.
Include details like estimated urgency, potential risks to public safety, and a polite request for resolution.
Keep it within 100 words.`, ward, note)
}
