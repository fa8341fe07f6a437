package classifier

import (
	"context"
	"strings"
	"unicode"

	"agent-insights-go/internal/types"
)

// Scores and confidences produced by the deterministic path.
const (
	ruleScore          = 0.6
	ruleConfidence     = 0.7
	noSignalConfidence = 0.5
)

// Lexicon holds the word lists driving the rule-based path. Treated as
// configurable data rather than business logic.
type Lexicon struct {
	Positive []string
	Negative []string
}

// DefaultLexicon returns the built-in customer-feedback word lists.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Positive: []string{
			"excellent", "amazing", "great", "good", "fantastic", "wonderful", "awesome",
			"love", "perfect", "best", "outstanding", "satisfied", "happy", "pleased",
			"helpful", "friendly", "professional", "quick", "fast", "efficient",
			"thank", "thanks", "grateful", "appreciate", "recommend",
		},
		Negative: []string{
			"terrible", "awful", "bad", "horrible", "worst", "hate", "frustrated",
			"angry", "disappointed", "annoyed", "upset", "useless", "broken",
			"failed", "error", "problem", "issue", "slow", "confusing", "rude",
			"waste", "regret", "complaint", "dissatisfied",
		},
	}
}

// Rules is the deterministic keyword classifier used when the LLM path
// is unavailable or fails.
type Rules struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

func NewRules(lex Lexicon) *Rules {
	r := &Rules{
		positive: make(map[string]struct{}, len(lex.Positive)),
		negative: make(map[string]struct{}, len(lex.Negative)),
	}
	for _, w := range lex.Positive {
		r.positive[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range lex.Negative {
		r.negative[strings.ToLower(w)] = struct{}{}
	}
	return r
}

func (r *Rules) Name() string { return "rules" }

func (r *Rules) Classify(_ context.Context, text string) (types.SentimentResult, error) {
	if strings.TrimSpace(text) == "" {
		return Neutral(0.0), nil
	}

	var pos, neg int
	for _, word := range tokenize(text) {
		if _, ok := r.positive[word]; ok {
			pos++
		}
		if _, ok := r.negative[word]; ok {
			neg++
		}
	}

	switch {
	case pos > neg:
		return types.SentimentResult{
			Label:      types.SentimentPositive,
			Score:      ruleScore,
			Confidence: ruleConfidence,
		}, nil
	case neg > pos:
		return types.SentimentResult{
			Label:      types.SentimentNegative,
			Score:      -ruleScore,
			Confidence: ruleConfidence,
		}, nil
	default:
		return Neutral(noSignalConfidence), nil
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
