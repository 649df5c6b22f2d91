package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/pageza/mealtracker/backend/internal/service"
	"github.com/pageza/mealtracker/backend/internal/testhelpers"
)

var testStats = service.DiaryStats{TotalMeals: 3, TotalSymptoms: 1, TrackingDays: 2}

func newGateway(model service.ReportModel, timeout time.Duration) *service.ReportGateway {
	return service.NewReportGateway(model, timeout, zap.NewNop())
}

func requireGenerationError(t *testing.T, err error) *service.GenerationError {
	t.Helper()
	var genErr *service.GenerationError
	require.ErrorAs(t, err, &genErr)
	return genErr
}

func TestGatewayGenerate(t *testing.T) {
	model := new(testhelpers.MockReportModel)
	model.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything).Return(testhelpers.ValidReportJSON, nil)

	content, err := newGateway(model, time.Second).Generate(context.Background(), service.Prompt{User: "diary"}, testStats)
	require.NoError(t, err)

	assert.Equal(t, "Bloating followed the garlic pasta lunch.", content.ExecutiveSummary)
	require.Len(t, content.SuspectFoods, 1)
	assert.Equal(t, "garlic", content.SuspectFoods[0].Ingredient)
	assert.Equal(t, 3, content.DataQuality.TotalMeals)
	assert.Equal(t, 1, content.DataQuality.TotalSymptoms)
	assert.Equal(t, 2, content.DataQuality.TrackingDays)
	assert.Equal(t, "insufficient", content.DataQuality.Completeness)
	model.AssertExpectations(t)
}

func TestGatewayPassesSchema(t *testing.T) {
	model := new(testhelpers.MockReportModel)
	model.On("GenerateReport", mock.Anything, service.Prompt{System: "sys", User: "usr"}, mock.MatchedBy(func(s *genai.Schema) bool {
		return s != nil && s.Type == genai.TypeObject && s.Properties["suspectFoods"] != nil
	})).Return(testhelpers.ValidReportJSON, nil)

	_, err := newGateway(model, 0).Generate(context.Background(), service.Prompt{System: "sys", User: "usr"}, testStats)
	require.NoError(t, err)
	model.AssertExpectations(t)
}

func TestGatewayRejectsInvalidReports(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not json", "Here is your report!"},
		{"missing sections", `{"executiveSummary": "ok"}`},
		{"unknown category", strings.Replace(testhelpers.ValidReportJSON, `"category": "fodmap"`, `"category": "spicy"`, 1)},
		{"severity out of range", strings.Replace(testhelpers.ValidReportJSON, `"severity": 4`, `"severity": 9`, 1)},
		{"trailing object", testhelpers.ValidReportJSON + ` {"executiveSummary": 7}`},
		{"trailing prose", testhelpers.ValidReportJSON + "\nHope this helps!"},
		{"unknown field", strings.Replace(testhelpers.ValidReportJSON, `"executiveSummary"`, `"extra": true, "executiveSummary"`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := new(testhelpers.MockReportModel)
			model.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything).Return(tt.raw, nil)

			content, err := newGateway(model, time.Second).Generate(context.Background(), service.Prompt{}, testStats)
			assert.Nil(t, content)
			genErr := requireGenerationError(t, err)
			assert.Equal(t, service.KindGeneration, genErr.Kind)
		})
	}
}

func TestGatewayClassifiesFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want service.GenerationErrorKind
	}{
		{"text 429", errors.New("googleapi: Error 429: too many requests"), service.KindThrottled},
		{"text quota", errors.New("You exceeded your current quota"), service.KindThrottled},
		{"text free tier", errors.New("limit for FreeTier requests reached"), service.KindThrottled},
		{"text API key", errors.New("API key not valid. Please pass a valid API key."), service.KindMisconfigured},
		{"text other", errors.New("connection reset by peer"), service.KindGeneration},
		{"generate is not a rate marker", errors.New("failed to generate content"), service.KindGeneration},
		{"api error 429", genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"}, service.KindThrottled},
		{"api error resource exhausted", fmt.Errorf("GenAI generate failed: %w", genai.APIError{Code: 0, Status: "RESOURCE_EXHAUSTED"}), service.KindThrottled},
		{"api error unauthenticated", genai.APIError{Code: http.StatusUnauthorized, Status: "UNAUTHENTICATED"}, service.KindMisconfigured},
		{"api error forbidden pointer", &genai.APIError{Code: http.StatusForbidden, Status: "PERMISSION_DENIED"}, service.KindMisconfigured},
		{"api error invalid key", genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT", Message: "API key not valid"}, service.KindMisconfigured},
		{"api error server", genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL", Message: "quota backend failed"}, service.KindGeneration},
		{"not configured", service.ErrModelNotConfigured, service.KindMisconfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := new(testhelpers.MockReportModel)
			model.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything).Return("", tt.err)

			_, err := newGateway(model, time.Second).Generate(context.Background(), service.Prompt{}, testStats)
			genErr := requireGenerationError(t, err)
			assert.Equal(t, tt.want, genErr.Kind)
			assert.NotNil(t, genErr.Err)
		})
	}
}

func TestGatewayThrottledSuggestsWait(t *testing.T) {
	model := new(testhelpers.MockReportModel)
	model.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("status 429"))

	_, err := newGateway(model, time.Second).Generate(context.Background(), service.Prompt{}, testStats)
	genErr := requireGenerationError(t, err)
	assert.Equal(t, service.KindThrottled, genErr.Kind)
	assert.Equal(t, time.Minute, genErr.RetryAfter)
	assert.Contains(t, genErr.Message, "wait 1 minute")
}

func TestGatewayWithoutModel(t *testing.T) {
	_, err := newGateway(nil, time.Second).Generate(context.Background(), service.Prompt{}, testStats)
	genErr := requireGenerationError(t, err)
	assert.Equal(t, service.KindMisconfigured, genErr.Kind)
}

func TestGatewayTimeout(t *testing.T) {
	model := new(testhelpers.MockReportModel)
	model.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", context.DeadlineExceeded)

	_, err := newGateway(model, 20*time.Millisecond).Generate(context.Background(), service.Prompt{}, testStats)
	genErr := requireGenerationError(t, err)
	assert.Equal(t, service.KindGeneration, genErr.Kind)
	assert.Contains(t, genErr.Message, "did not answer")
}
