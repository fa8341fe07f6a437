package types

import "time"

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// NeutralBand is the score band treated as neutral when a raw score or
// a batch average is classified into a label.
const NeutralBand = 0.1

// Transcript is one fetched conversation. Immutable once fetched.
type Transcript struct {
	ID              string    `json:"id"`
	AgentID         string    `json:"agent_id,omitempty"`
	Text            string    `json:"transcript"`
	CreatedAt       time.Time `json:"created_at"`
	DurationSeconds float64   `json:"duration"`
}

// SentimentResult is the per-transcript judgment. Score sign matches the
// label: positive > 0, negative < 0, neutral within the band.
type SentimentResult struct {
	Label      SentimentLabel `json:"sentiment_label"`
	Score      float64        `json:"sentiment_score"`
	Confidence float64        `json:"confidence"`
}

// LabelForScore maps a raw score onto a label using the neutral band.
func LabelForScore(score float64) SentimentLabel {
	switch {
	case score > NeutralBand:
		return SentimentPositive
	case score < -NeutralBand:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

type OverallSentiment struct {
	AverageScore   float64        `json:"average_score"`
	Classification SentimentLabel `json:"classification"`
}

type SentimentBreakdown struct {
	Counts      map[SentimentLabel]int     `json:"counts"`
	Percentages map[SentimentLabel]float64 `json:"percentages"`
}

type KeyInsights struct {
	WhatCustomersLove   []string `json:"what_customers_love"`
	AreasForImprovement []string `json:"areas_for_improvement"`
}

// ConversationAnalysis pairs a transcript with its judgment for the
// per-conversation listing.
type ConversationAnalysis struct {
	ID        string          `json:"id"`
	Text      string          `json:"transcript"`
	Sentiment SentimentResult `json:"sentiment"`
	CreatedAt time.Time       `json:"created_at"`
	Duration  float64         `json:"duration"`
}

type BusinessImpact struct {
	RevenueAtRisk  string `json:"revenue_at_risk,omitempty"`
	ConversionLoss string `json:"conversion_loss,omitempty"`
	ChurnRisk      string `json:"churn_risk,omitempty"`
}

type RecommendedAction struct {
	Priority    string `json:"priority,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Effort      string `json:"effort"`
	Impact      string `json:"impact"`
	Owner       string `json:"owner"`
	Timeline    string `json:"timeline"`
}

// PriorityInsight is one flagged theme, ranked P0 > P1 > P2.
type PriorityInsight struct {
	Priority          string            `json:"priority"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	PrimaryQuote      string            `json:"primary_quote,omitempty"`
	SentimentScore    float64           `json:"sentiment_score"`
	MatchedCount      int               `json:"matched_conversations"`
	BusinessImpact    BusinessImpact    `json:"business_impact"`
	RecommendedAction RecommendedAction `json:"recommended_action"`
}

type InsightsSummary struct {
	TotalConversations       int    `json:"total_conversations"`
	CriticalIssuesIdentified int    `json:"critical_issues_identified"`
	RevenueAtRisk            string `json:"revenue_at_risk,omitempty"`
}

// AggregateInsights is the full batch result, recomputed on every
// request and never persisted.
type AggregateInsights struct {
	Summary            InsightsSummary     `json:"summary"`
	OverallSentiment   OverallSentiment    `json:"overall_sentiment"`
	SentimentBreakdown SentimentBreakdown  `json:"sentiment_breakdown"`
	KeyInsights        KeyInsights         `json:"key_insights"`
	PriorityInsights   []PriorityInsight   `json:"priority_insights"`
	RecommendedActions []RecommendedAction `json:"recommended_actions"`
}
