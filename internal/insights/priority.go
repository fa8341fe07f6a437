package insights

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"agent-insights-go/internal/types"
)

// Priority tiers, most urgent first.
const (
	tierP0 = "P0"
	tierP1 = "P1"
	tierP2 = "P2"
)

// Impact levels a theme can declare.
const (
	ImpactHigh     = "high"
	ImpactModerate = "moderate"
	ImpactMinor    = "minor"
)

// A high-impact theme needs sentiment at least this negative to reach
// P0; otherwise it lands in P1.
const strongNegative = -0.5

// Theme is one recurring issue the generator watches for. The keyword
// lists and impact figures are configuration, not code: callers can
// supply their own taxonomy.
type Theme struct {
	Name           string
	Title          string
	Description    string
	Keywords       []string
	Impact         string
	RevenueMonthly int
	ConversionLoss string
	ChurnRisk      string
	Action         types.RecommendedAction
}

type Taxonomy []Theme

// DefaultTaxonomy carries the built-in product themes: pricing failures
// are treated as high business impact, checkout as moderate, and
// search/usability as minor.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{
			Name:           "pricing",
			Title:          "Pricing Page Failures Driving User Churn",
			Description:    "Pricing confusion and breakage repeatedly pushing prospects toward competitors",
			Keywords:       []string{"pricing", "price", "expensive", "cost", "tier", "plan", "outage", "down"},
			Impact:         ImpactHigh,
			RevenueMonthly: 82000,
			ConversionLoss: "68%",
			ChurnRisk:      "73%",
			Action: types.RecommendedAction{
				Title:       "Redesign pricing page with clear value propositions and simplified tiers",
				Description: "Immediate redesign of the pricing page with clear value props",
				Effort:      "High",
				Impact:      "Critical",
				Owner:       "Product Team + UX Design",
				Timeline:    "2 weeks",
			},
		},
		{
			Name:           "checkout",
			Title:          "Checkout Process Failures Blocking Revenue",
			Description:    "Payment and form errors preventing purchase completion",
			Keywords:       []string{"checkout", "payment", "card", "purchase", "billing", "charge"},
			Impact:         ImpactModerate,
			RevenueMonthly: 34000,
			ConversionLoss: "33%",
			ChurnRisk:      "45%",
			Action: types.RecommendedAction{
				Title:       "Fix payment processing errors and optimize checkout flow",
				Description: "Resolve payment gateway issues and form bugs",
				Effort:      "Medium",
				Impact:      "High",
				Owner:       "Engineering Team + Payments",
				Timeline:    "1 week",
			},
		},
		{
			Name:        "search",
			Title:       "Search Functionality Hampering User Experience",
			Description: "Search relevance and performance issues hurting productivity",
			Keywords:    []string{"search", "find", "results", "filter", "usability", "navigation"},
			Impact:      ImpactMinor,
			Action: types.RecommendedAction{
				Title:       "Implement intelligent search with semantic matching",
				Description: "Semantic search plus performance improvements",
				Effort:      "Medium",
				Impact:      "Medium",
				Owner:       "Search Team",
				Timeline:    "3 weeks",
			},
		},
	}
}

// priorityInsights flags every theme with at least one negative matched
// transcript, assigns a tier, and orders the result P0 first with the
// most negative sentiment breaking ties inside a tier. The second
// return value is the summed monthly revenue at risk.
func (g *Generator) priorityInsights(transcripts []types.Transcript, judgments []types.SentimentResult) ([]types.PriorityInsight, int) {
	var out []types.PriorityInsight
	totalRevenue := 0

	for _, theme := range g.taxonomy {
		var (
			matched  int
			scoreSum float64
			worst    float64
			quote    string
		)
		for i, j := range judgments {
			if j.Label != types.SentimentNegative {
				continue
			}
			if !matchesTheme(theme, transcripts[i].Text) {
				continue
			}
			matched++
			scoreSum += j.Score
			if j.Score <= worst {
				worst = j.Score
				quote = firstSentence(transcripts[i].Text)
			}
		}
		if matched == 0 {
			continue
		}

		mean := scoreSum / float64(matched)
		tier := tierForTheme(theme.Impact, mean)

		action := theme.Action
		action.Priority = tier
		insight := types.PriorityInsight{
			Priority:       tier,
			Title:          theme.Title,
			Description:    theme.Description,
			PrimaryQuote:   quote,
			SentimentScore: mean,
			MatchedCount:   matched,
			BusinessImpact: types.BusinessImpact{
				ConversionLoss: theme.ConversionLoss,
				ChurnRisk:      theme.ChurnRisk,
			},
			RecommendedAction: action,
		}
		if theme.RevenueMonthly > 0 {
			insight.BusinessImpact.RevenueAtRisk = formatMonthlyDollars(theme.RevenueMonthly)
			totalRevenue += theme.RevenueMonthly
		}
		out = append(out, insight)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return math.Abs(out[i].SentimentScore) > math.Abs(out[j].SentimentScore)
	})
	return out, totalRevenue
}

func matchesTheme(theme Theme, text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range theme.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func tierForTheme(impact string, meanScore float64) string {
	switch impact {
	case ImpactHigh:
		if meanScore <= strongNegative {
			return tierP0
		}
		return tierP1
	case ImpactModerate:
		return tierP1
	default:
		return tierP2
	}
}

func formatMonthlyDollars(amount int) string {
	return fmt.Sprintf("$%s/month", comma(amount))
}

func comma(n int) string {
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
