package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"agent-insights-go/internal/logger"
	"agent-insights-go/internal/types"
)

// Scores and confidences mapped from model output.
const (
	llmScore             = 0.7
	llmConfidence        = 0.8
	llmNeutralConfidence = 0.6
)

// ErrMalformedOutput marks model output that could not be mapped onto a
// sentiment label. Callers recover via the rule-based fallback.
var ErrMalformedOutput = errors.New("llm output did not contain a sentiment label")

const sentimentPrompt = `Analyze the sentiment of this customer conversation transcript:

"""%s"""

Reply with exactly one word: positive, negative, or neutral.`

// LLM classifies via an OpenAI-style chat completions gateway.
type LLM struct {
	gatewayURL string
	apiKey     string
	model      string
	timeout    time.Duration
	client     *http.Client
	log        *logrus.Entry
}

// NewLLM builds the gateway-backed strategy. The client is constructed
// once at startup and reused.
func NewLLM(gatewayURL, apiKey, model string, timeout time.Duration) *LLM {
	return &LLM{
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		model:      model,
		timeout:    timeout,
		client:     &http.Client{Timeout: timeout},
		log:        logger.New().WithComponent("classifier-llm"),
	}
}

func (l *LLM) Name() string { return "llm" }

// Available probes the gateway once; a network-level failure means the
// rule-based path runs alone for the process lifetime.
func (l *LLM) Available(ctx context.Context) bool {
	if l.gatewayURL == "" {
		return false
	}
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, l.gatewayURL, nil)
	if err != nil {
		return false
	}
	resp, err := l.client.Do(req)
	if err != nil {
		l.log.WithField("error", err.Error()).Warn("llm gateway unreachable")
		return false
	}
	resp.Body.Close()
	return true
}

func (l *LLM) Classify(ctx context.Context, text string) (types.SentimentResult, error) {
	if l.gatewayURL == "" {
		return types.SentimentResult{}, errors.New("llm gateway not configured")
	}

	reqBody := map[string]any{
		"model": l.model,
		"messages": []map[string]string{
			{"role": "user", "content": fmt.Sprintf(sentimentPrompt, text)},
		},
		"temperature": 0.0,
	}
	data, _ := json.Marshal(reqBody)

	var result types.SentimentResult
	var lastErr error

	op := func() error {
		callCtx, cancel := context.WithTimeout(ctx, l.timeout)
		defer cancel()

		req, _ := http.NewRequestWithContext(callCtx, http.MethodPost, l.gatewayURL, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
		if l.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+l.apiKey)
		}

		resp, err := l.client.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("llm server error: %s", string(body))
			return lastErr
		}
		if resp.StatusCode >= 400 {
			lastErr = fmt.Errorf("llm client error: status=%d", resp.StatusCode)
			return backoff.Permanent(lastErr)
		}

		content := contentFromChoices(body)
		if content == "" {
			content = string(body)
		}
		res, err := mapSentiment(content)
		if err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		result = res
		lastErr = nil
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = l.timeout * 2
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return types.SentimentResult{}, fmt.Errorf("llm classify failed: %w", lastErr)
	}
	return result, nil
}

// contentFromChoices reads the OpenAI-style choices[0].message.content
// field, tolerating anything else by returning "".
func contentFromChoices(body []byte) string {
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Choices) == 0 {
		return ""
	}
	return parsed.Choices[0].Message.Content
}

// mapSentiment converts free-form model output into the fixed result
// shape. Anything unrecognized is malformed output.
func mapSentiment(content string) (types.SentimentResult, error) {
	c := strings.ToLower(content)
	switch {
	case strings.Contains(c, "positive"):
		return types.SentimentResult{
			Label:      types.SentimentPositive,
			Score:      llmScore,
			Confidence: llmConfidence,
		}, nil
	case strings.Contains(c, "negative"):
		return types.SentimentResult{
			Label:      types.SentimentNegative,
			Score:      -llmScore,
			Confidence: llmConfidence,
		}, nil
	case strings.Contains(c, "neutral"):
		return Neutral(llmNeutralConfidence), nil
	default:
		return types.SentimentResult{}, ErrMalformedOutput
	}
}
