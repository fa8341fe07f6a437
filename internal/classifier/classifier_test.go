package classifier

import (
	"context"
	"errors"
	"testing"

	"agent-insights-go/internal/types"
)

type stubStrategy struct {
	name string
	res  types.SentimentResult
	err  error
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Classify(context.Context, string) (types.SentimentResult, error) {
	return s.res, s.err
}

func TestAnalyzerEmptyText(t *testing.T) {
	a := NewAnalyzer(nil, NewRules(DefaultLexicon()))
	res := a.Classify(context.Background(), "")
	if res.Label != types.SentimentNeutral || res.Score != 0.0 || res.Confidence != 0.0 {
		t.Fatalf("expected zero-confidence neutral, got %+v", res)
	}
	res = a.Classify(context.Background(), "   \n\t ")
	if res.Label != types.SentimentNeutral || res.Confidence != 0.0 {
		t.Fatalf("expected zero-confidence neutral for whitespace, got %+v", res)
	}
}

func TestAnalyzerUsesPrimary(t *testing.T) {
	primary := &stubStrategy{
		name: "stub",
		res:  types.SentimentResult{Label: types.SentimentPositive, Score: 0.9, Confidence: 0.95},
	}
	a := NewAnalyzer(primary, NewRules(DefaultLexicon()))
	res := a.Classify(context.Background(), "anything")
	if res.Score != 0.9 {
		t.Fatalf("expected primary result, got %+v", res)
	}
}

func TestAnalyzerFallsBackOnPrimaryError(t *testing.T) {
	primary := &stubStrategy{name: "stub", err: errors.New("gateway timeout")}
	a := NewAnalyzer(primary, NewRules(DefaultLexicon()))

	res := a.Classify(context.Background(), "Great service!")
	if res.Label != types.SentimentPositive {
		t.Fatalf("fallback should classify positive, got %+v", res)
	}
}

func TestAnalyzerNeverErrors(t *testing.T) {
	primary := &stubStrategy{name: "p", err: errors.New("down")}
	fallback := &stubStrategy{name: "f", err: errors.New("also down")}
	a := NewAnalyzer(primary, fallback)

	res := a.Classify(context.Background(), "something")
	if res.Label != types.SentimentNeutral || res.Confidence != 0.0 {
		t.Fatalf("expected lowest-confidence neutral when everything fails, got %+v", res)
	}
}
