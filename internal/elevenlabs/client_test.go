package elevenlabs

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// fakeAPI serves a conversation list plus per-id details keyed by
// conversation id.
func fakeAPI(t *testing.T, details map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Errorf("missing xi-api-key header")
		}
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Path == "/convai/conversations" {
			if r.URL.Query().Get("agent_id") == "" {
				t.Errorf("missing agent_id query param")
			}
			ids := make([]string, 0, len(details))
			for id := range details {
				ids = append(ids, fmt.Sprintf(`{"conversation_id":%q}`, id))
			}
			fmt.Fprintf(w, `{"history":[%s]}`, strings.Join(ids, ","))
			return
		}

		id := strings.TrimPrefix(r.URL.Path, "/convai/conversations/")
		body, ok := details[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
}

func TestConversationsFlatTranscript(t *testing.T) {
	srv := fakeAPI(t, map[string]string{
		"conv_1": `{"transcript":"Great service!","created_at":"2024-01-01T10:00:00Z","duration_seconds":185}`,
	})
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	got, err := c.Conversations(context.Background(), "agent_1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 transcript, got %d", len(got))
	}
	tr := got[0]
	if tr.ID != "conv_1" || tr.AgentID != "agent_1" || tr.Text != "Great service!" {
		t.Fatalf("unexpected transcript: %+v", tr)
	}
	want := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	if !tr.CreatedAt.Equal(want) {
		t.Fatalf("created_at %v, want %v", tr.CreatedAt, want)
	}
	if tr.DurationSeconds != 185 {
		t.Fatalf("duration %f, want 185", tr.DurationSeconds)
	}
}

func TestExtractTranscriptShapes(t *testing.T) {
	cases := []struct {
		name string
		conv map[string]any
		want string
	}{
		{
			name: "flat transcript wins",
			conv: map[string]any{"transcript": "hello", "summary": "ignored"},
			want: "hello",
		},
		{
			name: "conversation turns",
			conv: map[string]any{"conversation_turns": []any{
				map[string]any{"user_message": "My card was declined", "agent_response": "Let me check"},
			}},
			want: "User: My card was declined Agent: Let me check",
		},
		{
			name: "message objects",
			conv: map[string]any{"messages": []any{
				map[string]any{"content": "first"},
				map[string]any{"text": "second"},
			}},
			want: "first second",
		},
		{
			name: "message strings",
			conv: map[string]any{"messages": []any{"one", "two"}},
			want: "one two",
		},
		{
			name: "summary fallback",
			conv: map[string]any{"summary": "caller asked about pricing"},
			want: "caller asked about pricing",
		},
		{
			name: "nothing usable",
			conv: map[string]any{"status": "done"},
			want: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractTranscript(tc.conv); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestConversationsSkipsFailedDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/convai/conversations":
			fmt.Fprint(w, `{"history":[{"conversation_id":"missing"},{"conversation_id":"ok"}]}`)
		case strings.HasSuffix(r.URL.Path, "/ok"):
			fmt.Fprint(w, `{"transcript":"still here"}`)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	got, err := c.Conversations(context.Background(), "agent_1", 10)
	if err != nil {
		t.Fatalf("per-id failures should not be fatal: %v", err)
	}
	if len(got) != 1 || got[0].ID != "ok" {
		t.Fatalf("expected only the healthy conversation, got %+v", got)
	}
}

func TestConversationsListFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "wrong")
	if _, err := c.Conversations(context.Background(), "agent_1", 10); err == nil {
		t.Fatal("expected error when listing fails")
	}
}

func TestConversationsHonorsLimit(t *testing.T) {
	details := map[string]string{}
	for i := 1; i <= 5; i++ {
		details[fmt.Sprintf("conv_%d", i)] = `{"transcript":"text"}`
	}
	srv := fakeAPI(t, details)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	got, err := c.Conversations(context.Background(), "agent_1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(got))
	}
}

func TestMockSourceDeterministic(t *testing.T) {
	m := NewMockSource()
	got, err := m.Conversations(context.Background(), "agent_x", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(mockTranscripts) {
		t.Fatalf("expected %d mock conversations, got %d", len(mockTranscripts), len(got))
	}
	if got[0].ID != "agent_x_conv_1" {
		t.Fatalf("unexpected first id: %q", got[0].ID)
	}
	if got[1].DurationSeconds != 150 {
		t.Fatalf("expected duration progression, got %f", got[1].DurationSeconds)
	}
	if !got[1].CreatedAt.After(got[0].CreatedAt) {
		t.Fatal("timestamps should increase")
	}

	limited, _ := m.Conversations(context.Background(), "agent_x", 3)
	if len(limited) != 3 {
		t.Fatalf("expected 3 with limit, got %d", len(limited))
	}
}
