package model

// QuestionCategory buckets a suggested question for styling and routing.
type QuestionCategory string

const (
	CategoryPortfolio QuestionCategory = "portfolio"
	CategoryMarket    QuestionCategory = "market"
	CategoryStrategy  QuestionCategory = "strategy"
	CategoryGeneral   QuestionCategory = "general"
)

// SuggestedQuestion is a time-boxed prompt offered to the advisor.
// ExpiresIn counts down once per second; the question disappears at zero.
type SuggestedQuestion struct {
	ID        string
	Text      string
	Category  QuestionCategory
	ExpiresIn int
}

// DefaultQuestionPool is the static pool the scheduler backfills from.
func DefaultQuestionPool() []SuggestedQuestion {
	return []SuggestedQuestion{
		{ID: "q1", Text: "How is my tech sector exposure performing?", Category: CategoryPortfolio},
		{ID: "q2", Text: "What's the impact of recent Fed decisions on my bonds?", Category: CategoryMarket},
		{ID: "q3", Text: "Should I rebalance given current market conditions?", Category: CategoryStrategy},
		{ID: "q4", Text: "What's your take on emerging market opportunities?", Category: CategoryGeneral},
		{ID: "q5", Text: "Are my ESG holdings tracking the broader index?", Category: CategoryPortfolio},
		{ID: "q6", Text: "How would a rate cut affect my fixed income allocation?", Category: CategoryMarket},
		{ID: "q7", Text: "Is now a good time to harvest tax losses?", Category: CategoryStrategy},
		{ID: "q8", Text: "What's driving the volatility in my growth positions?", Category: CategoryGeneral},
	}
}
