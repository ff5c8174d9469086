package backendsim

import "github.com/theCampel/lightspeed/internal/model"

// Canned advisor demo data. The simulator exists so the dashboard can be
// exercised end to end without the real transcription backend, so the
// content mirrors what that backend typically produces for a demo call.

func demoProfile() model.ClientProfile {
	return model.ClientProfile{
		ID:               "client-001",
		Name:             "Jonathan Rothwell",
		Occupation:       "Architect",
		Since:            "2019",
		RiskAppetite:     "Moderate",
		PortfolioSize:    1250000,
		PreferredContact: "Email",
		Notes:            "Interested in sustainable investing. Planning for retirement around 2040.",
		Tags:             []string{"ESG", "retirement", "long-term"},
	}
}

func demoStock() model.StockPayload {
	return model.StockPayload{
		Symbol:        "NVDA",
		Company:       "NVIDIA Corporation",
		Price:         845.27,
		Change:        23.45,
		ChangePercent: 2.85,
		Volume:        42318500,
		History: []model.PricePoint{
			{Timestamp: 1756300800, Close: 798.10},
			{Timestamp: 1756387200, Close: 812.65},
			{Timestamp: 1756473600, Close: 806.30},
			{Timestamp: 1756560000, Close: 821.82},
			{Timestamp: 1756646400, Close: 845.27},
		},
		RelatedNews: []model.Headline{
			{Headline: "NVIDIA beats earnings expectations on data center growth", Source: "Reuters", Timestamp: "2026-08-28T14:30:00Z", Sentiment: "positive"},
			{Headline: "Analysts raise NVDA price targets after AI demand surge", Source: "Bloomberg", Timestamp: "2026-08-29T09:15:00Z", Sentiment: "positive"},
		},
	}
}

func demoFunds() []model.FundPayload {
	return []model.FundPayload{
		{ID: "fund-1", Name: "Global Clean Energy Index Fund", Ticker: "GCEF", Category: "Clean Energy", ExpenseRatio: 0.42, ESG: true},
		{ID: "fund-2", Name: "Sustainable Growth Equity Fund", Ticker: "SGEF", Category: "Large Growth", ExpenseRatio: 0.65, ESG: true},
		{ID: "fund-3", Name: "Total Market Index Fund", Ticker: "TMIF", Category: "Large Blend", ExpenseRatio: 0.04, ESG: false},
	}
}

func demoNews() []model.NewsItem {
	return []model.NewsItem{
		{ID: "news-1", Title: "Fed signals rates will hold steady through Q4", Source: "Financial Times", URL: "https://ft.com/fed-rates-q4", PublishedAt: "2026-08-30T08:00:00Z", Summary: "Policymakers indicated no further changes this year, citing stable inflation.", Sentiment: "neutral"},
		{ID: "news-2", Title: "Semiconductor sector rallies on strong guidance", Source: "WSJ", URL: "https://wsj.com/semis-rally", PublishedAt: "2026-08-31T12:20:00Z", Summary: "Chipmakers led the market higher after upbeat earnings calls.", Sentiment: "positive"},
	}
}

func demoPortfolio() model.PortfolioPayload {
	return model.PortfolioPayload{
		TotalValue:    1250000,
		Change:        34500,
		ChangePercent: 2.84,
		Period:        "1M",
		Allocation: []model.AllocationSlice{
			{Label: "Equities", Value: 62},
			{Label: "Fixed Income", Value: 23},
			{Label: "Alternatives", Value: 10},
			{Label: "Cash", Value: 5},
		},
		Performance: []model.PerformancePoint{
			{Date: "2026-04-01", Value: 1148000},
			{Date: "2026-05-01", Value: 1173500},
			{Date: "2026-06-01", Value: 1160200},
			{Date: "2026-07-01", Value: 1215500},
			{Date: "2026-08-01", Value: 1250000},
		},
	}
}

func demoSummary() model.SummaryPayload {
	return model.SummaryPayload{
		DiscussionPoints: []string{
			"Reviewed NVDA position and recent semiconductor rally",
			"Client reiterated interest in ESG-aligned funds",
			"Discussed portfolio drift toward equities",
		},
		ActionItems: []string{
			"Send prospectus for the Global Clean Energy Index Fund",
			"Schedule rebalancing review for next quarter",
		},
		InvestmentGoalChanges: []string{
			"Retirement target moved from 2042 to 2040",
		},
	}
}
