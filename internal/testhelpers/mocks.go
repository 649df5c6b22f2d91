package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"google.golang.org/genai"

	"github.com/pageza/mealtracker/backend/internal/service"
)

// MockReportModel is a testify mock of service.ReportModel.
type MockReportModel struct {
	mock.Mock
}

func (m *MockReportModel) GenerateReport(ctx context.Context, prompt service.Prompt, schema *genai.Schema) (string, error) {
	args := m.Called(ctx, prompt, schema)
	return args.String(0), args.Error(1)
}

// ValidReportJSON is a minimal report that satisfies the report schema.
const ValidReportJSON = `{
  "executiveSummary": "Bloating followed the garlic pasta lunch.",
  "suspectFoods": [
    {
      "ingredient": "garlic",
      "category": "fodmap",
      "suspicionLevel": "moderate",
      "symptomTypes": ["Bloating"],
      "occurrences": 1,
      "reasoning": "Bloating (severity 4) six hours after Pasta with garlic on 2024-01-01."
    }
  ],
  "temporalCorrelations": [
    {
      "meal": "Pasta with garlic",
      "mealDate": "2024-01-01T13:00:00Z",
      "symptom": "Bloating",
      "symptomDate": "2024-01-01T19:00:00Z",
      "delayHours": 6,
      "severity": 4,
      "suspectIngredients": ["garlic", "wheat"]
    }
  ],
  "symptomClusters": [
    {
      "clusterName": "Gas and bloating",
      "symptoms": ["Bloating"],
      "averageSeverity": 4,
      "trend": "insufficient-data",
      "topTriggers": ["garlic"],
      "observations": "Single episode."
    }
  ],
  "eliminationExperiments": [
    {
      "title": "Remove garlic",
      "foodsToRemove": ["garlic"],
      "duration": "2 weeks",
      "rationale": "Garlic is high in fructans.",
      "expectedImprovement": "Less bloating after lunch.",
      "priority": "high"
    }
  ],
  "dataQuality": {
    "totalMeals": 99,
    "totalSymptoms": 99,
    "trackingDays": 99,
    "completeness": "insufficient",
    "gaps": ["Only two days logged"],
    "suggestion": "Keep logging for two more weeks."
  }
}`
