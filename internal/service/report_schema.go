package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"google.golang.org/genai"

	"github.com/pageza/mealtracker/backend/internal/types"
)

var reportValidator = validator.New(validator.WithRequiredStructEnabled())

// ValidateReport checks content against the report schema.
func ValidateReport(content *types.ReportContent) error {
	if err := reportValidator.Struct(content); err != nil {
		return fmt.Errorf("report does not match schema: %w", err)
	}
	return nil
}

func stringSchema(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func enumSchema(desc string, values ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc, Enum: values}
}

func stringListSchema(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Description: desc, Items: &genai.Schema{Type: genai.TypeString}}
}

func objectSchema(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func listOf(desc string, item *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Description: desc, Items: item}
}

// ReportResponseSchema describes types.ReportContent to the model.
func ReportResponseSchema() *genai.Schema {
	suspectFood := objectSchema(map[string]*genai.Schema{
		"ingredient":     stringSchema("Ingredient or food name taken from the meal log"),
		"category":       enumSchema("Why the food is suspect", "fodmap", "histamine", "gi-irritant", "common-allergen", "other"),
		"suspicionLevel": enumSchema("Strength of the evidence", "low", "moderate", "high", "very-high"),
		"symptomTypes":   stringListSchema("Symptoms associated with the ingredient"),
		"occurrences":    {Type: genai.TypeInteger, Description: "Times the ingredient preceded a symptom"},
		"reasoning":      stringSchema("Evidence from the diary, citing dates and severities"),
	}, "ingredient", "category", "suspicionLevel", "symptomTypes", "occurrences", "reasoning")

	correlation := objectSchema(map[string]*genai.Schema{
		"meal":               stringSchema("Meal name"),
		"mealDate":           stringSchema("When the meal was logged"),
		"symptom":            stringSchema("Symptom name"),
		"symptomDate":        stringSchema("When the symptom was logged"),
		"delayHours":         {Type: genai.TypeNumber, Description: "Hours between meal and symptom"},
		"severity":           {Type: genai.TypeInteger, Description: "Symptom severity from 1 to 5", Minimum: genai.Ptr[float64](1), Maximum: genai.Ptr[float64](5)},
		"suspectIngredients": stringListSchema("Ingredients of the meal that may explain the symptom"),
	}, "meal", "mealDate", "symptom", "symptomDate", "delayHours", "severity", "suspectIngredients")

	cluster := objectSchema(map[string]*genai.Schema{
		"clusterName":     stringSchema("Body system or symptom group"),
		"symptoms":        stringListSchema("Symptoms in the cluster"),
		"averageSeverity": {Type: genai.TypeNumber, Description: "Average severity from 1 to 5"},
		"trend":           enumSchema("Direction over the tracking period", "improving", "worsening", "stable", "insufficient-data"),
		"topTriggers":     stringListSchema("Most likely triggers for the cluster"),
		"observations":    stringSchema("Notable patterns"),
	}, "clusterName", "symptoms", "averageSeverity", "trend", "topTriggers", "observations")

	experiment := objectSchema(map[string]*genai.Schema{
		"title":               stringSchema("Short name of the experiment"),
		"foodsToRemove":       stringListSchema("Foods to eliminate"),
		"duration":            stringSchema("How long to run the experiment"),
		"rationale":           stringSchema("Evidence supporting the experiment"),
		"expectedImprovement": stringSchema("What should change if the hypothesis holds"),
		"priority":            enumSchema("Order in which to try it", "high", "medium", "low"),
	}, "title", "foodsToRemove", "duration", "rationale", "expectedImprovement", "priority")

	dataQuality := objectSchema(map[string]*genai.Schema{
		"totalMeals":    {Type: genai.TypeInteger},
		"totalSymptoms": {Type: genai.TypeInteger},
		"trackingDays":  {Type: genai.TypeInteger},
		"completeness":  enumSchema("How complete the diary is", "insufficient", "partial", "good", "excellent"),
		"gaps":          stringListSchema("Missing information that limits the analysis"),
		"suggestion":    stringSchema("How to improve the diary"),
	}, "totalMeals", "totalSymptoms", "trackingDays", "completeness", "gaps", "suggestion")

	return objectSchema(map[string]*genai.Schema{
		"executiveSummary":       stringSchema("Short overview of the main findings"),
		"suspectFoods":           listOf("Suspect foods ranked by suspicion", suspectFood),
		"temporalCorrelations":   listOf("Meal to symptom pairings", correlation),
		"symptomClusters":        listOf("Symptoms grouped by body system", cluster),
		"eliminationExperiments": listOf("Experiments ranked by evidence strength", experiment),
		"dataQuality":            dataQuality,
	}, "executiveSummary", "suspectFoods", "temporalCorrelations", "symptomClusters", "eliminationExperiments", "dataQuality")
}
