package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/mealtracker/backend/internal/api"
	"github.com/pageza/mealtracker/backend/internal/service"
	"github.com/pageza/mealtracker/backend/internal/testhelpers"
	"github.com/pageza/mealtracker/backend/internal/types"
)

type testAPI struct {
	router *gin.Engine
	model  *testhelpers.MockReportModel
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupSQLite(t)
	logger := zap.NewNop()
	model := new(testhelpers.MockReportModel)

	meals := service.NewMealService(db)
	symptoms := service.NewSymptomService(db)
	profiles := service.NewProfileService(db)
	reports := service.NewReportService(
		service.NewDiaryAggregator(db, time.UTC),
		profiles,
		service.NewPromptComposer("English", time.UTC),
		service.NewReportGateway(model, time.Second, logger),
		service.NewReportStore(db),
		nil,
		logger,
	)

	router := gin.New()
	api.RegisterRoutes(router, api.Services{
		Auth:      service.NewAuthService(db, "test-secret"),
		Profiles:  profiles,
		Meals:     meals,
		Symptoms:  symptoms,
		Dashboard: service.NewDashboardService(meals, symptoms),
		Reports:   reports,
	})
	return &testAPI{router: router, model: model}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) register(t *testing.T, email string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/auth/register", "", types.RegisterRequest{
		Name: "Test", Email: email, Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp types.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (a *testAPI) logScenario(t *testing.T, token string) {
	t.Helper()
	for _, m := range []map[string]interface{}{
		{"name": "Oatmeal", "meal_type": "BREAKFAST", "ingredients": []string{"oats"}, "logged_at": "2024-01-01T08:00:00Z"},
		{"name": "Pasta with garlic", "meal_type": "LUNCH", "ingredients": []string{"pasta", "garlic"}, "logged_at": "2024-01-01T13:00:00Z"},
		{"name": "Eggs", "meal_type": "BREAKFAST", "logged_at": "2024-01-02T09:00:00Z"},
	} {
		w := a.do(t, http.MethodPost, "/api/v1/meals", token, m)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w := a.do(t, http.MethodPost, "/api/v1/symptoms", token, map[string]interface{}{
		"name": "Bloating", "severity": 4, "logged_at": "2024-01-01T19:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestHealth(t *testing.T) {
	a := setupAPI(t)
	w := a.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestUnauthenticatedRequestsHaveNoBody(t *testing.T) {
	a := setupAPI(t)
	for _, path := range []string{"/api/v1/meals", "/api/v1/reports", "/api/v1/profile", "/api/v1/dashboard"} {
		w := a.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Empty(t, w.Body.String(), path)
	}

	w := a.do(t, http.MethodPost, "/api/v1/reports/generate", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	a.model.AssertNotCalled(t, "GenerateReport", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthFlow(t *testing.T) {
	a := setupAPI(t)
	a.register(t, "flow@example.com")

	w := a.do(t, http.MethodPost, "/api/v1/auth/register", "", types.RegisterRequest{Name: "Dup", Email: "flow@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/auth/register", "", types.RegisterRequest{Name: "Short", Email: "short@example.com", Password: "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{Email: "flow@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{Email: "flow@example.com", Password: "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp types.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = a.do(t, http.MethodPut, "/api/v1/profile", resp.Token, map[string]string{"health_context": "Not celiac"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"health_context":"Not celiac"`)
}

func TestMealValidationAndOwnership(t *testing.T) {
	a := setupAPI(t)
	alice := a.register(t, "alice@example.com")
	bob := a.register(t, "bob@example.com")

	w := a.do(t, http.MethodPost, "/api/v1/meals", alice, map[string]interface{}{
		"name": "Soup", "meal_type": "BRUNCH", "logged_at": "2024-01-01T08:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/symptoms", alice, map[string]interface{}{
		"name": "Headache", "severity": 6, "logged_at": "2024-01-01T08:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/meals", alice, map[string]interface{}{
		"name": "Soup", "meal_type": "DINNER", "logged_at": "2024-01-01T20:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var meal struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meal))

	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/api/v1/meals/"+meal.ID, bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodDelete, "/api/v1/meals/"+meal.ID, bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/api/v1/meals/not-a-uuid", alice, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/v1/meals/"+meal.ID, alice, nil).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/api/v1/meals?limit=zero", alice, nil).Code)
	assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, "/api/v1/meals/"+meal.ID, alice, nil).Code)
}

func TestGenerateReportWithoutData(t *testing.T) {
	a := setupAPI(t)
	token := a.register(t, "empty@example.com")

	w := a.do(t, http.MethodPost, "/api/v1/reports/generate", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "log some data")
	a.model.AssertNotCalled(t, "GenerateReport", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateReportLifecycle(t *testing.T) {
	a := setupAPI(t)
	alice := a.register(t, "alice@example.com")
	bob := a.register(t, "bob@example.com")
	a.logScenario(t, alice)
	a.model.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything).Return(testhelpers.ValidReportJSON, nil)

	w := a.do(t, http.MethodPost, "/api/v1/reports/generate", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reportID := w.Header().Get(api.ReportIDHeader)
	require.NotEmpty(t, reportID)

	var content types.ReportContent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &content))
	assert.Equal(t, 3, content.DataQuality.TotalMeals)
	assert.Equal(t, 1, content.DataQuality.TotalSymptoms)
	assert.Equal(t, 2, content.DataQuality.TrackingDays)

	w = a.do(t, http.MethodGet, "/api/v1/reports", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summaries []types.ReportSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, reportID, summaries[0].ID.String())

	w = a.do(t, http.MethodGet, "/api/v1/reports", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/api/v1/reports/"+reportID, bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodDelete, "/api/v1/reports/"+reportID, bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/api/v1/reports/"+reportID+"/export", alice, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/v1/reports/"+reportID, alice, nil).Code)
	assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, "/api/v1/reports/"+reportID, alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/api/v1/reports/"+reportID, alice, nil).Code)
}

func TestGenerateReportFailureCategories(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		category string
	}{
		{"throttled", errors.New("Error 429: quota exceeded"), http.StatusTooManyRequests, "throttled"},
		{"misconfigured", errors.New("API key not valid"), http.StatusInternalServerError, "misconfigured"},
		{"generation", errors.New("upstream connect error"), http.StatusInternalServerError, "generation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := setupAPI(t)
			token := a.register(t, "fail@example.com")
			a.logScenario(t, token)
			a.model.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything).Return("", tt.err)

			w := a.do(t, http.MethodPost, "/api/v1/reports/generate", token, nil)
			assert.Equal(t, tt.status, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.category, body["category"])
			assert.NotEmpty(t, body["error"])
			if tt.category == "throttled" {
				assert.EqualValues(t, 60, body["retry_after_seconds"])
				assert.Equal(t, "60", w.Header().Get("Retry-After"))
			}
			assert.Empty(t, w.Header().Get(api.ReportIDHeader))
		})
	}
}

func TestDashboardAndTimeline(t *testing.T) {
	a := setupAPI(t)
	token := a.register(t, "dash@example.com")
	a.logScenario(t, token)

	w := a.do(t, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash service.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.EqualValues(t, 3, dash.TotalMeals)
	assert.EqualValues(t, 1, dash.TotalSymptoms)

	w = a.do(t, http.MethodGet, "/api/v1/timeline", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 4)
	assert.Equal(t, "meal", entries[0].Kind)
	assert.Equal(t, "symptom", entries[1].Kind)
}
