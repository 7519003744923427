package insights

// Static responses served when the model cannot be reached or returns
// unusable output. The dashboard keeps working without an API key.

func fallbackRecommendations() BusinessRecommendations {
	return BusinessRecommendations{
		OverallHealth: "unknown",
		KeyInsights: []string{
			"Unable to generate AI insights at this time",
			"Please ensure your Gemini API key is configured correctly",
			"Manual data analysis is recommended",
		},
		Recommendations: []Recommendation{
			{
				Category:                 "operations",
				Priority:                 "medium",
				Action:                   "Review your data quality and completeness",
				ExpectedImpact:           "Improved decision making",
				ImplementationDifficulty: "easy",
			},
		},
		Alerts: []Alert{
			{
				Type:         "warning",
				Message:      "AI recommendations are currently unavailable",
				ActionNeeded: "Check API configuration",
			},
		},
	}
}

func fallbackInventoryInsights() InventoryInsights {
	return InventoryInsights{
		InventoryHealth: "unknown",
		OptimizationStrategies: []string{
			"Review items at or below their reorder level",
			"Negotiate bulk rates with suppliers for fast-moving products",
		},
		CostReductionOpportunities: []string{
			"Reduce safety stock on slow-moving products",
		},
		Alerts: []string{
			"AI inventory analysis is currently unavailable",
		},
	}
}

func fallbackRevenueOpportunities() RevenueOpportunities {
	return RevenueOpportunities{
		RevenueTrendAnalysis: "Revenue trend analysis requires API configuration",
		GrowthOpportunities: []GrowthOpportunity{
			{
				Strategy:             "Focus marketing spend on the best-selling products",
				PotentialImpact:      "Incremental revenue from proven sellers",
				ImplementationEffort: "low",
				Timeframe:            "short-term",
			},
		},
		PricingInsights: []string{
			"Review pricing on products with declining sales",
		},
		MarketExpansionIdeas: []string{
			"Survey existing customers for adjacent product demand",
		},
	}
}
