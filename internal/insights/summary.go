package insights

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"agent-insights-go/internal/classifier"
	"agent-insights-go/internal/logger"
	"agent-insights-go/internal/types"
)

// Thresholds for pulling quotes into the qualitative buckets.
const (
	loveThreshold    = 0.3
	improveThreshold = -0.3
	excerptMaxLen    = 120
)

// Generator turns a batch of transcripts into aggregate insights. It is
// stateless between calls; everything is recomputed per request.
type Generator struct {
	analyzer *classifier.Analyzer
	taxonomy Taxonomy
	workers  int
	log      *logrus.Entry
}

func NewGenerator(analyzer *classifier.Analyzer, taxonomy Taxonomy, workers int) *Generator {
	if workers < 1 {
		workers = 1
	}
	return &Generator{
		analyzer: analyzer,
		taxonomy: taxonomy,
		workers:  workers,
		log:      logger.New().WithComponent("insights"),
	}
}

// ClassifyAll judges every transcript with at most g.workers concurrent
// classifications. Results keep the input order regardless of
// completion order.
func (g *Generator) ClassifyAll(ctx context.Context, transcripts []types.Transcript) []types.SentimentResult {
	results := make([]types.SentimentResult, len(transcripts))
	sem := make(chan struct{}, g.workers)
	var wg sync.WaitGroup

	for i, t := range transcripts {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, text string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = g.analyzer.Classify(ctx, text)
		}(i, t.Text)
	}
	wg.Wait()
	return results
}

// Analyses returns the per-conversation listing used by the
// conversations endpoint.
func (g *Generator) Analyses(ctx context.Context, transcripts []types.Transcript) []types.ConversationAnalysis {
	judgments := g.ClassifyAll(ctx, transcripts)
	out := make([]types.ConversationAnalysis, len(transcripts))
	for i, t := range transcripts {
		out[i] = types.ConversationAnalysis{
			ID:        t.ID,
			Text:      t.Text,
			Sentiment: judgments[i],
			CreatedAt: t.CreatedAt,
			Duration:  t.DurationSeconds,
		}
	}
	return out
}

// Summarize classifies the batch and derives the sentiment breakdown,
// qualitative buckets, and prioritized insights.
func (g *Generator) Summarize(ctx context.Context, transcripts []types.Transcript) types.AggregateInsights {
	judgments := g.ClassifyAll(ctx, transcripts)

	counts := map[types.SentimentLabel]int{
		types.SentimentPositive: 0,
		types.SentimentNegative: 0,
		types.SentimentNeutral:  0,
	}
	var sum float64
	for _, j := range judgments {
		counts[j.Label]++
		sum += j.Score
	}

	percentages := map[types.SentimentLabel]float64{
		types.SentimentPositive: 0,
		types.SentimentNegative: 0,
		types.SentimentNeutral:  0,
	}
	var mean float64
	if len(judgments) > 0 {
		total := float64(len(judgments))
		for label, n := range counts {
			percentages[label] = float64(n) / total * 100
		}
		mean = sum / total
	}

	loves, improvements := g.qualitativeBuckets(transcripts, judgments)
	priority, revenueAtRisk := g.priorityInsights(transcripts, judgments)

	actions := make([]types.RecommendedAction, 0, len(priority))
	critical := 0
	for _, p := range priority {
		actions = append(actions, p.RecommendedAction)
		if p.Priority == tierP0 {
			critical++
		}
	}

	agg := types.AggregateInsights{
		Summary: types.InsightsSummary{
			TotalConversations:       len(transcripts),
			CriticalIssuesIdentified: critical,
		},
		OverallSentiment: types.OverallSentiment{
			AverageScore:   mean,
			Classification: types.LabelForScore(mean),
		},
		SentimentBreakdown: types.SentimentBreakdown{
			Counts:      counts,
			Percentages: percentages,
		},
		KeyInsights: types.KeyInsights{
			WhatCustomersLove:   loves,
			AreasForImprovement: improvements,
		},
		PriorityInsights:   priority,
		RecommendedActions: actions,
	}
	if revenueAtRisk > 0 {
		agg.Summary.RevenueAtRisk = formatMonthlyDollars(revenueAtRisk)
	}

	g.log.WithFields(logrus.Fields{
		"transcripts":       len(transcripts),
		"priority_insights": len(priority),
		"mean_score":        mean,
	}).Debug("summarized batch")
	return agg
}

// qualitativeBuckets extracts deduplicated short statements from the
// strongly positive and strongly negative transcripts.
func (g *Generator) qualitativeBuckets(transcripts []types.Transcript, judgments []types.SentimentResult) (loves, improvements []string) {
	seenLove := map[string]struct{}{}
	seenImprove := map[string]struct{}{}

	for i, j := range judgments {
		excerpt := firstSentence(transcripts[i].Text)
		if excerpt == "" {
			continue
		}
		key := strings.ToLower(excerpt)
		switch {
		case j.Score > loveThreshold:
			if _, ok := seenLove[key]; !ok {
				seenLove[key] = struct{}{}
				loves = append(loves, excerpt)
			}
		case j.Score < improveThreshold:
			if _, ok := seenImprove[key]; !ok {
				seenImprove[key] = struct{}{}
				improvements = append(improvements, excerpt)
			}
		}
	}
	return loves, improvements
}

// firstSentence returns the first sentence of a transcript, truncated
// to a short summary statement.
func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if idx := strings.IndexAny(text, ".!?"); idx > 0 {
		text = text[:idx]
	}
	text = strings.TrimSpace(text)
	if len(text) > excerptMaxLen {
		text = strings.TrimSpace(text[:excerptMaxLen]) + "..."
	}
	return text
}
