package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ReportSchemaVersion identifies the shape of ReportContent stored with each report.
const ReportSchemaVersion = "2"

// ReportContent is the structured sensitivity report produced by the model.
// The validate tags are the contract a model response must meet before it is
// returned or stored.
type ReportContent struct {
	ExecutiveSummary       string                  `json:"executiveSummary" validate:"required"`
	SuspectFoods           []SuspectFood           `json:"suspectFoods" validate:"required,dive"`
	TemporalCorrelations   []TemporalCorrelation   `json:"temporalCorrelations" validate:"required,dive"`
	SymptomClusters        []SymptomCluster        `json:"symptomClusters" validate:"required,dive"`
	EliminationExperiments []EliminationExperiment `json:"eliminationExperiments" validate:"required,dive"`
	DataQuality            DataQuality             `json:"dataQuality"`
}

type SuspectFood struct {
	Ingredient     string   `json:"ingredient" validate:"required"`
	Category       string   `json:"category" validate:"oneof=fodmap histamine gi-irritant common-allergen other"`
	SuspicionLevel string   `json:"suspicionLevel" validate:"oneof=low moderate high very-high"`
	SymptomTypes   []string `json:"symptomTypes" validate:"required"`
	Occurrences    int      `json:"occurrences" validate:"gte=0"`
	Reasoning      string   `json:"reasoning" validate:"required"`
}

type TemporalCorrelation struct {
	Meal               string   `json:"meal" validate:"required"`
	MealDate           string   `json:"mealDate" validate:"required"`
	Symptom            string   `json:"symptom" validate:"required"`
	SymptomDate        string   `json:"symptomDate" validate:"required"`
	DelayHours         float64  `json:"delayHours" validate:"gte=0"`
	Severity           int      `json:"severity" validate:"min=1,max=5"`
	SuspectIngredients []string `json:"suspectIngredients" validate:"required"`
}

type SymptomCluster struct {
	ClusterName     string   `json:"clusterName" validate:"required"`
	Symptoms        []string `json:"symptoms" validate:"required"`
	AverageSeverity float64  `json:"averageSeverity" validate:"gte=0,lte=5"`
	Trend           string   `json:"trend" validate:"oneof=improving worsening stable insufficient-data"`
	TopTriggers     []string `json:"topTriggers" validate:"required"`
	Observations    string   `json:"observations"`
}

type EliminationExperiment struct {
	Title               string   `json:"title" validate:"required"`
	FoodsToRemove       []string `json:"foodsToRemove" validate:"required"`
	Duration            string   `json:"duration" validate:"required"`
	Rationale           string   `json:"rationale" validate:"required"`
	ExpectedImprovement string   `json:"expectedImprovement"`
	Priority            string   `json:"priority" validate:"oneof=high medium low"`
}

type DataQuality struct {
	TotalMeals    int      `json:"totalMeals" validate:"gte=0"`
	TotalSymptoms int      `json:"totalSymptoms" validate:"gte=0"`
	TrackingDays  int      `json:"trackingDays" validate:"gte=0"`
	Completeness  string   `json:"completeness" validate:"oneof=insufficient partial good excellent"`
	Gaps          []string `json:"gaps" validate:"required"`
	Suggestion    string   `json:"suggestion"`
}

// Value implements the driver.Valuer interface
func (r ReportContent) Value() (driver.Value, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (r *ReportContent) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return fmt.Errorf("report content is null")
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported report content type %T", value)
	}
	return json.Unmarshal(data, r)
}
