package elevenlabs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"agent-insights-go/internal/logger"
	"agent-insights-go/internal/types"
)

// Client fetches voice-agent conversations from the ElevenLabs
// conversational API. A fetch failure here is surfaced to the caller:
// an unreachable transcript source affects aggregation correctness and
// must not be silently papered over.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logrus.Entry
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     logger.New().WithComponent("elevenlabs"),
	}
}

type listResponse struct {
	History []struct {
		ConversationID string `json:"conversation_id"`
	} `json:"history"`
}

// Conversations lists conversation ids for the agent and fetches each
// one's detail. Per-conversation failures are skipped; only a failed
// listing is fatal.
func (c *Client) Conversations(ctx context.Context, agentID string, limit int) ([]types.Transcript, error) {
	u, err := url.Parse(c.baseURL + "/convai/conversations")
	if err != nil {
		return nil, fmt.Errorf("bad base url: %w", err)
	}
	q := u.Query()
	q.Set("agent_id", agentID)
	q.Set("page_size", fmt.Sprintf("%d", limit))
	u.RawQuery = q.Encode()

	var list listResponse
	if err := c.doJSON(ctx, u.String(), &list); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	out := make([]types.Transcript, 0, len(list.History))
	for _, h := range list.History {
		if len(out) >= limit {
			break
		}
		detail := map[string]any{}
		detailURL := fmt.Sprintf("%s/convai/conversations/%s", c.baseURL, url.PathEscape(h.ConversationID))
		if err := c.doJSON(ctx, detailURL, &detail); err != nil {
			c.log.WithField("conversation_id", h.ConversationID).
				WithField("error", err.Error()).
				Warn("skipping conversation detail")
			continue
		}
		text := extractTranscript(detail)
		if text == "" {
			continue
		}
		out = append(out, types.Transcript{
			ID:              h.ConversationID,
			AgentID:         agentID,
			Text:            text,
			CreatedAt:       parseCreatedAt(detail),
			DurationSeconds: numberField(detail, "duration_seconds"),
		})
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, rawURL string, target any) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 12 * time.Second
	var lastErr error
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("xi-api-key", c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %s", string(body))
			return lastErr
		}
		if resp.StatusCode >= 400 {
			lastErr = fmt.Errorf("api error: status=%d", resp.StatusCode)
			return backoff.Permanent(lastErr)
		}
		if err := json.Unmarshal(body, target); err != nil {
			lastErr = fmt.Errorf("json decode error: %v", err)
			return lastErr
		}
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		if lastErr != nil {
			return lastErr
		}
		return err
	}
	return nil
}

// extractTranscript pulls transcript text out of a conversation detail
// payload, tolerating the several shapes the API has used: a flat
// transcript field, user/agent turns, a message list, or a summary.
func extractTranscript(conv map[string]any) string {
	if t, ok := conv["transcript"].(string); ok && t != "" {
		return t
	}

	if turns, ok := conv["conversation_turns"].([]any); ok {
		var parts []string
		for _, raw := range turns {
			turn, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if msg, ok := turn["user_message"].(string); ok && msg != "" {
				parts = append(parts, "User: "+msg)
			}
			if msg, ok := turn["agent_response"].(string); ok && msg != "" {
				parts = append(parts, "Agent: "+msg)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}

	if msgs, ok := conv["messages"].([]any); ok {
		var parts []string
		for _, raw := range msgs {
			switch m := raw.(type) {
			case map[string]any:
				content, _ := m["content"].(string)
				if content == "" {
					content, _ = m["text"].(string)
				}
				if content != "" {
					parts = append(parts, content)
				}
			case string:
				if m != "" {
					parts = append(parts, m)
				}
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}

	if s, ok := conv["summary"].(string); ok {
		return s
	}
	return ""
}

func parseCreatedAt(conv map[string]any) time.Time {
	if s, ok := conv["created_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func numberField(conv map[string]any, key string) float64 {
	if v, ok := conv[key].(float64); ok {
		return v
	}
	return 0
}
