package elevenlabs

import (
	"context"
	"strconv"
	"time"

	"agent-insights-go/internal/types"
)

// mockTranscripts is the canned feedback set served when no real source
// is configured. It covers positive, negative, and mixed calls so the
// demo endpoints exercise the whole pipeline.
var mockTranscripts = []string{
	"Hi, I'm calling about your product. The service has been absolutely amazing! Your team was so helpful and resolved my issue quickly. I'm really impressed with the quality.",
	"I had some trouble with the setup initially, but your support team walked me through everything step by step. Great customer service!",
	"This is terrible. I've been waiting for hours and nobody can help me. The product doesn't work as advertised and I'm very frustrated.",
	"The experience was okay, nothing special. It works but could be better. Average service overall.",
	"Fantastic! This exceeded my expectations. The team was professional, quick, and very knowledgeable. Highly recommend!",
	"I'm disappointed with the quality. It's not what I expected and the support was unhelpful. Would not recommend.",
	"Pretty good experience overall. Had a few minor issues but they were resolved. Happy with the outcome.",
	"Worst customer service ever! Nobody knows what they're doing. Complete waste of time and money.",
	"Love this service! It's exactly what I needed. The team is responsive and the product works perfectly.",
	"Mixed feelings about this. Some parts are good, others not so much. It's an average experience.",
}

// MockSource serves deterministic conversations for demos and tests.
type MockSource struct{}

func NewMockSource() *MockSource { return &MockSource{} }

func (m *MockSource) Conversations(_ context.Context, agentID string, limit int) ([]types.Transcript, error) {
	if limit > len(mockTranscripts) {
		limit = len(mockTranscripts)
	}
	base := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	out := make([]types.Transcript, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, types.Transcript{
			ID:              agentID + "_conv_" + strconv.Itoa(i+1),
			AgentID:         agentID,
			Text:            mockTranscripts[i],
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
			DurationSeconds: float64(120 + i*30),
		})
	}
	return out, nil
}
