package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// maxIngredients is the number of strIngredientN/strMeasureN slots TheMealDB exposes.
const maxIngredients = 20

// Category is a recipe grouping as listed by the upstream directory.
type Category struct {
	Name string `json:"strCategory"`
}

// MealSummary is the lightweight record returned by filter and random endpoints.
type MealSummary struct {
	ID           string `json:"idMeal"`
	Name         string `json:"strMeal"`
	ThumbnailURL string `json:"strMealThumb"`
}

// Ingredient pairs an ingredient with its measure.
type Ingredient struct {
	Name    string
	Measure string
}

// MealDetail is a MealSummary plus the extended fields of a lookup result.
// Fields the application does not interpret are kept in Extra.
type MealDetail struct {
	MealSummary
	Category     string
	Area         string
	Instructions string
	Tags         []string
	YouTubeURL   string
	SourceURL    string
	Ingredients  []Ingredient
	Extra        map[string]any
}

var knownDetailFields = map[string]struct{}{
	"idMeal":          {},
	"strMeal":         {},
	"strMealThumb":    {},
	"strCategory":     {},
	"strArea":         {},
	"strInstructions": {},
	"strTags":         {},
	"strYoutube":      {},
	"strSource":       {},
}

// UnmarshalJSON decodes an upstream meal object. Upstream values are strings or null.
func (m *MealDetail) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	str := func(key string) string {
		if v, ok := raw[key].(string); ok {
			return strings.TrimSpace(v)
		}
		return ""
	}

	*m = MealDetail{
		MealSummary: MealSummary{
			ID:           str("idMeal"),
			Name:         str("strMeal"),
			ThumbnailURL: str("strMealThumb"),
		},
		Category:     str("strCategory"),
		Area:         str("strArea"),
		Instructions: str("strInstructions"),
		YouTubeURL:   str("strYoutube"),
		SourceURL:    str("strSource"),
	}

	if tags := str("strTags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				m.Tags = append(m.Tags, tag)
			}
		}
	}

	for i := 1; i <= maxIngredients; i++ {
		ingredientKey := fmt.Sprintf("strIngredient%d", i)
		measureKey := fmt.Sprintf("strMeasure%d", i)
		if name := str(ingredientKey); name != "" {
			m.Ingredients = append(m.Ingredients, Ingredient{Name: name, Measure: str(measureKey)})
		}
		delete(raw, ingredientKey)
		delete(raw, measureKey)
	}

	for key := range knownDetailFields {
		delete(raw, key)
	}
	if len(raw) > 0 {
		m.Extra = raw
	}
	return nil
}
