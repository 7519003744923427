package insights

import (
	"encoding/json"
	"fmt"

	"github.com/opsintel/backend-go/internal/domain"
)

func recommendationsPrompt(summary domain.DataSummary) (string, error) {
	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data summary: %w", err)
	}

	return fmt.Sprintf(`You are a business consultant analyzing data for a small to medium enterprise (SME).
Based on the following business data, provide actionable recommendations to improve operations,
reduce costs, and increase profitability.

Business Data:
%s

Please provide your analysis in JSON format with the following structure:
{
  "overall_health": "excellent/good/fair/poor",
  "key_insights": ["insight 1", "insight 2", "insight 3"],
  "recommendations": [
    {
      "category": "cost_optimization/revenue_growth/inventory_management/operations",
      "priority": "high/medium/low",
      "action": "specific action to take",
      "expected_impact": "estimated financial or operational impact",
      "implementation_difficulty": "easy/medium/hard"
    }
  ],
  "alerts": [
    {
      "type": "warning/critical/info",
      "message": "alert message",
      "action_needed": "immediate action required"
    }
  ]
}

Focus on:
1. Cost optimization opportunities
2. Revenue growth strategies
3. Inventory management improvements
4. Operational efficiency gains
5. Risk mitigation

Return only valid JSON, no additional text.`, payload), nil
}

func inventoryPrompt(summary domain.DataSummary) (string, error) {
	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data summary: %w", err)
	}

	return fmt.Sprintf(`You are an inventory management expert. Analyze the following inventory
data and provide practical optimization advice.

%s

Provide inventory management insights in JSON format:
{
  "inventory_health": "excellent/good/fair/poor",
  "reorder_recommendations": [
    {
      "product": "product name",
      "current_stock": "current level",
      "recommended_order": "suggested order quantity",
      "urgency": "immediate/soon/can_wait"
    }
  ],
  "optimization_strategies": ["strategy 1", "strategy 2"],
  "cost_reduction_opportunities": ["opportunity 1", "opportunity 2"],
  "alerts": ["critical inventory alerts"]
}

Return only valid JSON, no additional text.`, payload), nil
}

func revenuePrompt(summary domain.DataSummary) (string, error) {
	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data summary: %w", err)
	}

	return fmt.Sprintf(`You are a revenue optimization expert. Analyze the following sales data
for revenue growth opportunities.

%s

Provide revenue optimization recommendations in JSON format:
{
  "revenue_trend_analysis": "analysis of current revenue trend",
  "growth_opportunities": [
    {
      "strategy": "specific growth strategy",
      "potential_impact": "estimated revenue increase",
      "implementation_effort": "low/medium/high",
      "timeframe": "short-term/medium-term/long-term"
    }
  ],
  "pricing_insights": ["pricing strategy recommendations"],
  "market_expansion_ideas": ["ideas for market expansion"]
}

Return only valid JSON, no additional text.`, payload), nil
}
