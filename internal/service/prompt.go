package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

const systemPromptTemplate = `# Role & Expertise

You are a clinical food sensitivity analyst specializing in elimination diets, GI disorders and food-symptom pattern detection. You know:

- FODMAP groups (fructose, lactose, fructans, galactans, polyols) and which everyday foods contain them
- Histamine-rich and histamine-releasing foods (aged cheeses, fermented foods, tomatoes, citrus, chocolate, alcohol, processed meats)
- Common GI irritants (caffeine, spicy foods, high-fat fried foods, artificial sweeteners, excess fiber)
- Common food allergens (dairy proteins, wheat, eggs, soy, nuts, shellfish)
- Reaction timing: immediate (0-2h, IgE-type), delayed (2-24h, enzymatic or FODMAP) and very delayed (24-72h, inflammatory or skin)

# Analysis Framework

## Step 1: Map the Timeline
For each symptom entry, look back 1-48 hours for the meals eaten before it. A severity 4-5 symptom 2-12h after a meal is a strong signal. Symptoms 12-48h later suggest delayed inflammatory reactions.

## Step 2: Frequency Analysis
Count how often each ingredient appears in meals that precede symptom episodes and in meals that do not. An ingredient present in most pre-symptom meals but few symptom-free meals is highly suspect.

## Step 3: Symptom Clustering
Group symptoms by body system:
- Digestive motility: diarrhea, constipation, stool changes, urgency
- Gas and bloating: bloating, gas, distension, excessive fullness
- Abdominal pain: cramps, stomach pain, nausea
- Skin and irritation: rash, itching, skin reactions
- Other: fatigue, headache, brain fog

## Step 4: Pattern Detection
Look for dose-dependent patterns, combination triggers (A alone is fine, A with B is not), time-of-day patterns, meal size patterns and weekday versus weekend differences.

## Step 5: Elimination Hypotheses
Propose specific, testable elimination experiments ordered by strength of evidence.

# Output Rules

- ALL text must be written in %s
- Reference only foods, ingredients, dates and severity values that appear in the data; never invent data points
- State your confidence honestly; when the data is sparse, say so and mark conclusions as low confidence
- Do not give generic nutrition advice; only data-driven observations
- Do not diagnose medical conditions; frame findings as patterns to discuss with a healthcare provider
- When listing suspect foods, always name the category (FODMAP, histamine and so on) so the user learns why the food may be a problem`

const instructions = `## Instructions
1. For each symptom entry, identify the meals consumed in the 1-48 hours before it
2. Build a frequency table of ingredients seen before symptom episodes versus symptom-free periods
3. Pay special attention to FODMAP foods (onion, garlic, wheat, beans, lentils, apples, watermelon, mushrooms, cauliflower, artificial sweeteners)
4. Check for histamine-related patterns (tomato, citrus, chocolate, processed meats, aged cheese, vinegar, fermented foods)
5. Look for GI irritant patterns (coffee, pepper, fried foods, alcohol, excess fat)
6. Take the known health context into account when it rules a trigger in or out
7. Group the symptoms into clusters (motility, gas/bloating, skin, pain) and analyze each one separately
8. Propose ranked elimination experiments based on evidence strength
`

// Prompt is the request handed to the report model.
type Prompt struct {
	System string
	User   string
}

type promptMeal struct {
	Meal        string   `json:"meal"`
	Type        string   `json:"type"`
	Ingredients []string `json:"ingredients"`
	Notes       string   `json:"notes,omitempty"`
	When        string   `json:"when"`
}

type promptSymptom struct {
	Symptom  string `json:"symptom"`
	Severity int    `json:"severity"`
	Notes    string `json:"notes,omitempty"`
	When     string `json:"when"`
}

// PromptComposer renders a diary into model input. It holds no mutable
// state; the output depends only on its arguments.
type PromptComposer struct {
	language string
	loc      *time.Location
}

func NewPromptComposer(language string, loc *time.Location) *PromptComposer {
	if loc == nil {
		loc = time.UTC
	}
	return &PromptComposer{language: language, loc: loc}
}

// Compose builds the system and user prompts for diary as of now.
func (c *PromptComposer) Compose(diary *Diary, now time.Time, healthContext string) (Prompt, error) {
	meals := make([]promptMeal, 0, len(diary.Meals))
	for _, m := range diary.Meals {
		ingredients := []string(m.Ingredients)
		if ingredients == nil {
			ingredients = []string{}
		}
		meals = append(meals, promptMeal{
			Meal:        m.Name,
			Type:        string(m.MealType),
			Ingredients: ingredients,
			Notes:       m.Notes,
			When:        m.LoggedAt.UTC().Format(time.RFC3339),
		})
	}

	symptoms := make([]promptSymptom, 0, len(diary.Symptoms))
	for _, s := range diary.Symptoms {
		symptoms = append(symptoms, promptSymptom{
			Symptom:  s.Name,
			Severity: s.Severity,
			Notes:    s.Notes,
			When:     s.LoggedAt.UTC().Format(time.RFC3339),
		})
	}

	mealJSON, err := indentJSON(meals)
	if err != nil {
		return Prompt{}, fmt.Errorf("failed to encode meal log: %w", err)
	}
	symptomJSON, err := indentJSON(symptoms)
	if err != nil {
		return Prompt{}, fmt.Errorf("failed to encode symptom log: %w", err)
	}

	stats := diary.Stats
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following food and symptom diary. Local time zone: %s.\n\n", c.loc.String())

	b.WriteString("## Context\n")
	fmt.Fprintf(&b, "- Today: %s\n", now.In(c.loc).Format(dateLayout))
	fmt.Fprintf(&b, "- Tracking period: %s to %s (%d days)\n",
		stats.Earliest.In(c.loc).Format(dateLayout),
		stats.Latest.In(c.loc).Format(dateLayout),
		stats.TrackingDays)
	fmt.Fprintf(&b, "- Total meals logged: %d\n", stats.TotalMeals)
	fmt.Fprintf(&b, "- Total symptom entries: %d\n\n", stats.TotalSymptoms)

	if hc := strings.TrimSpace(healthContext); hc != "" {
		b.WriteString("## Known Health Context\n")
		b.WriteString(hc)
		b.WriteString("\n\n")
	}

	b.WriteString("## Meal Log (chronological)\n")
	b.Write(mealJSON)
	b.WriteString("\n## Symptom Log (chronological)\n")
	b.Write(symptomJSON)
	b.WriteString("\n")
	b.WriteString(instructions)

	return Prompt{
		System: fmt.Sprintf(systemPromptTemplate, c.language),
		User:   b.String(),
	}, nil
}

// indentJSON encodes v without HTML escaping so ingredient names such as
// "mac & cheese" reach the model verbatim.
func indentJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
