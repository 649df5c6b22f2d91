package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/pageza/mealtracker/backend/internal/types"
)

// ErrModelNotConfigured is returned by a report model that has no
// credential to call its provider.
var ErrModelNotConfigured = errors.New("API key for the report model is not configured")

// ReportModel produces raw report JSON for a prompt.
type ReportModel interface {
	GenerateReport(ctx context.Context, prompt Prompt, schema *genai.Schema) (string, error)
}

// ReportGateway calls the report model and turns its answer into validated
// report content, or into a classified GenerationError.
type ReportGateway struct {
	model   ReportModel
	schema  *genai.Schema
	timeout time.Duration
	logger  *zap.Logger
}

// NewReportGateway wraps model. A nil model makes every call fail as
// misconfigured. A zero timeout disables the deadline.
func NewReportGateway(model ReportModel, timeout time.Duration, logger *zap.Logger) *ReportGateway {
	return &ReportGateway{
		model:   model,
		schema:  ReportResponseSchema(),
		timeout: timeout,
		logger:  logger,
	}
}

// Generate runs one model call. On success dataQuality carries the counts
// from stats, not the model's own.
func (g *ReportGateway) Generate(ctx context.Context, prompt Prompt, stats DiaryStats) (*types.ReportContent, error) {
	if g.model == nil {
		return nil, misconfiguredError(ErrModelNotConfigured)
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := g.model.GenerateReport(callCtx, prompt, g.schema)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, generationError(fmt.Sprintf("the AI provider did not answer within %s; try again", g.timeout), err)
		}
		return nil, g.classify(err)
	}
	g.logger.Debug("report model answered", zap.Duration("elapsed", time.Since(start)), zap.Int("bytes", len(raw)))

	content, err := decodeReport(raw)
	if err != nil {
		g.logger.Warn("report model returned a non-conforming report", zap.Error(err))
		return nil, generationError("the generated report was invalid; try again", err)
	}

	content.DataQuality.TotalMeals = stats.TotalMeals
	content.DataQuality.TotalSymptoms = stats.TotalSymptoms
	content.DataQuality.TrackingDays = stats.TrackingDays
	return content, nil
}

func decodeReport(raw string) (*types.ReportContent, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty response")
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	var content types.ReportContent
	if err := dec.Decode(&content); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	// The answer must be exactly one JSON object.
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		return nil, errors.New("unexpected data after report object")
	}
	if err := ValidateReport(&content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (g *ReportGateway) classify(err error) *GenerationError {
	if errors.Is(err, ErrModelNotConfigured) {
		return misconfiguredError(err)
	}

	if apiErr, ok := asAPIError(err); ok {
		switch {
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED":
			return throttledError(err)
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden,
			apiErr.Status == "UNAUTHENTICATED" || apiErr.Status == "PERMISSION_DENIED",
			strings.Contains(apiErr.Message, "API key"):
			return misconfiguredError(err)
		default:
			return generationError("failed to generate report; try again", err)
		}
	}

	// No structured code; fall back to the provider's message text.
	kind := classifyMessage(err.Error())
	g.logger.Warn("classified report model failure from error text",
		zap.String("kind", string(kind)),
		zap.Error(err),
	)
	switch kind {
	case KindThrottled:
		return throttledError(err)
	case KindMisconfigured:
		return misconfiguredError(err)
	default:
		return generationError("failed to generate report; try again", err)
	}
}

var throttleMarkers = []string{"429", "quota", "FreeTier", "rate limit", "RESOURCE_EXHAUSTED"}

func classifyMessage(msg string) GenerationErrorKind {
	for _, marker := range throttleMarkers {
		if strings.Contains(msg, marker) {
			return KindThrottled
		}
	}
	if strings.Contains(msg, "API key") {
		return KindMisconfigured
	}
	return KindGeneration
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}
