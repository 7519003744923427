// Package insights asks a hosted Gemini model for natural-language
// business advice derived from the KPI snapshot. Every analysis degrades
// to a static fallback when the model is unconfigured, unreachable or
// returns something that is not the requested JSON.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/opsintel/backend-go/internal/config"
	"github.com/opsintel/backend-go/internal/domain"
)

// Advisor generates business recommendations from data summaries.
type Advisor struct {
	apiKey string
	model  string
}

// NewAdvisor builds an advisor. A missing API key is allowed; every
// analysis then returns its fallback.
func NewAdvisor(cfg config.AIConfig) *Advisor {
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("gemini api key not configured, insights will use fallback recommendations")
	}
	model := cfg.GeminiModel
	if model == "" {
		model = "gemini-1.5-pro-latest"
	}
	return &Advisor{apiKey: cfg.GeminiAPIKey, model: model}
}

// Recommendation is one actionable suggestion from the model.
type Recommendation struct {
	Category                 string `json:"category"`
	Priority                 string `json:"priority"`
	Action                   string `json:"action"`
	ExpectedImpact           string `json:"expected_impact"`
	ImplementationDifficulty string `json:"implementation_difficulty"`
}

// Alert is a warning or critical notice surfaced by the model.
type Alert struct {
	Type         string `json:"type"`
	Message      string `json:"message"`
	ActionNeeded string `json:"action_needed"`
}

// BusinessRecommendations is the full advisory response.
type BusinessRecommendations struct {
	OverallHealth   string           `json:"overall_health"`
	KeyInsights     []string         `json:"key_insights"`
	Recommendations []Recommendation `json:"recommendations"`
	Alerts          []Alert          `json:"alerts"`
}

// ReorderRecommendation is one inventory-specific suggestion.
type ReorderRecommendation struct {
	Product          string `json:"product"`
	CurrentStock     string `json:"current_stock"`
	RecommendedOrder string `json:"recommended_order"`
	Urgency          string `json:"urgency"`
}

// InventoryInsights is the model's inventory analysis.
type InventoryInsights struct {
	InventoryHealth            string                  `json:"inventory_health"`
	ReorderRecommendations     []ReorderRecommendation `json:"reorder_recommendations"`
	OptimizationStrategies     []string                `json:"optimization_strategies"`
	CostReductionOpportunities []string                `json:"cost_reduction_opportunities"`
	Alerts                     []string                `json:"alerts"`
}

// GrowthOpportunity is one revenue growth suggestion.
type GrowthOpportunity struct {
	Strategy             string `json:"strategy"`
	PotentialImpact      string `json:"potential_impact"`
	ImplementationEffort string `json:"implementation_effort"`
	Timeframe            string `json:"timeframe"`
}

// RevenueOpportunities is the model's revenue analysis.
type RevenueOpportunities struct {
	RevenueTrendAnalysis string              `json:"revenue_trend_analysis"`
	GrowthOpportunities  []GrowthOpportunity `json:"growth_opportunities"`
	PricingInsights      []string            `json:"pricing_insights"`
	MarketExpansionIdeas []string            `json:"market_expansion_ideas"`
}

// GenerateRecommendations asks the model for overall business advice
// based on the data summary.
func (a *Advisor) GenerateRecommendations(ctx context.Context, summary domain.DataSummary) BusinessRecommendations {
	prompt, err := recommendationsPrompt(summary)
	if err != nil {
		log.Error().Err(err).Msg("failed to build recommendations prompt")
		return fallbackRecommendations()
	}

	var out BusinessRecommendations
	if err := a.generateJSON(ctx, prompt, &out); err != nil {
		log.Warn().Err(err).Msg("gemini recommendations unavailable, using fallback")
		return fallbackRecommendations()
	}
	return out
}

// GenerateInventoryInsights asks the model for inventory advice.
func (a *Advisor) GenerateInventoryInsights(ctx context.Context, summary domain.DataSummary) InventoryInsights {
	prompt, err := inventoryPrompt(summary)
	if err != nil {
		log.Error().Err(err).Msg("failed to build inventory prompt")
		return fallbackInventoryInsights()
	}

	var out InventoryInsights
	if err := a.generateJSON(ctx, prompt, &out); err != nil {
		log.Warn().Err(err).Msg("gemini inventory insights unavailable, using fallback")
		return fallbackInventoryInsights()
	}
	return out
}

// GenerateRevenueOpportunities asks the model for revenue growth advice.
func (a *Advisor) GenerateRevenueOpportunities(ctx context.Context, summary domain.DataSummary) RevenueOpportunities {
	prompt, err := revenuePrompt(summary)
	if err != nil {
		log.Error().Err(err).Msg("failed to build revenue prompt")
		return fallbackRevenueOpportunities()
	}

	var out RevenueOpportunities
	if err := a.generateJSON(ctx, prompt, &out); err != nil {
		log.Warn().Err(err).Msg("gemini revenue opportunities unavailable, using fallback")
		return fallbackRevenueOpportunities()
	}
	return out
}

// generateJSON sends one prompt and decodes the JSON body of the reply
// into out. Markdown code fences around the JSON are tolerated.
func (a *Advisor) generateJSON(ctx context.Context, prompt string, out interface{}) error {
	if a.apiKey == "" {
		return fmt.Errorf("gemini api key not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	resp, err := client.GenerativeModel(a.model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(stripJSONFences(text)), out); err != nil {
		return fmt.Errorf("model returned invalid JSON: %w", err)
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty model response")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("model response contained no text")
	}
	return b.String(), nil
}

func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
