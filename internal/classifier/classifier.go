package classifier

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"agent-insights-go/internal/logger"
	"agent-insights-go/internal/types"
)

// Strategy is one way of judging a transcript. The LLM-backed and
// rule-based implementations are interchangeable behind this interface.
type Strategy interface {
	Name() string
	Classify(ctx context.Context, text string) (types.SentimentResult, error)
}

// Neutral returns the neutral judgment with the given confidence.
func Neutral(confidence float64) types.SentimentResult {
	return types.SentimentResult{
		Label:      types.SentimentNeutral,
		Score:      0.0,
		Confidence: confidence,
	}
}

// Analyzer routes classification through a primary strategy with a
// deterministic fallback. Classify never returns an error: any primary
// failure falls through to the fallback, and the worst case is the
// zero-confidence neutral judgment.
type Analyzer struct {
	primary  Strategy
	fallback Strategy
	log      *logrus.Entry
}

// NewAnalyzer builds the facade. primary may be nil, in which case the
// fallback runs alone.
func NewAnalyzer(primary, fallback Strategy) *Analyzer {
	return &Analyzer{
		primary:  primary,
		fallback: fallback,
		log:      logger.New().WithComponent("classifier"),
	}
}

func (a *Analyzer) Classify(ctx context.Context, text string) types.SentimentResult {
	if strings.TrimSpace(text) == "" {
		return Neutral(0.0)
	}

	if a.primary != nil {
		res, err := a.primary.Classify(ctx, text)
		if err == nil {
			return res
		}
		a.log.WithField("strategy", a.primary.Name()).
			WithField("error", err.Error()).
			Debug("primary classifier failed, using fallback")
	}

	res, err := a.fallback.Classify(ctx, text)
	if err != nil {
		return Neutral(0.0)
	}
	return res
}
