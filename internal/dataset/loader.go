package dataset

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"agent-insights-go/internal/logger"
	"agent-insights-go/internal/types"
)

// Source serves conversations from a local spreadsheet, used for
// offline demos when no API key is configured. Rows are loaded once at
// construction.
type Source struct {
	transcripts []types.Transcript
}

// Load reads the first sheet, detecting columns by header heuristics.
// Rows without transcript text are skipped quietly.
func Load(path string) (*Source, error) {
	log := logger.New().WithComponent("dataset").WithField("path", path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	header := rows[0]
	idIdx := -1
	textIdx := -1
	createdIdx := -1
	durationIdx := -1
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case textIdx == -1 && (strings.Contains(l, "transcript") || strings.Contains(l, "text")):
			textIdx = i
		case idIdx == -1 && strings.Contains(l, "id"):
			idIdx = i
		case createdIdx == -1 && (strings.Contains(l, "created") || strings.Contains(l, "date")):
			createdIdx = i
		case durationIdx == -1 && strings.Contains(l, "duration"):
			durationIdx = i
		}
	}
	if textIdx == -1 {
		return nil, fmt.Errorf("no transcript column detected")
	}

	var out []types.Transcript
	for i, r := range rows {
		if i == 0 {
			continue
		}
		rec := types.Transcript{}
		if textIdx < len(r) {
			rec.Text = strings.TrimSpace(r[textIdx])
		}
		if rec.Text == "" {
			continue
		}
		if idIdx >= 0 && idIdx < len(r) && r[idIdx] != "" {
			rec.ID = r[idIdx]
		} else {
			rec.ID = fmt.Sprintf("row_%d", i)
		}
		if createdIdx >= 0 && createdIdx < len(r) {
			if t, err := time.Parse(time.RFC3339, strings.TrimSpace(r[createdIdx])); err == nil {
				rec.CreatedAt = t
			}
		}
		if durationIdx >= 0 && durationIdx < len(r) {
			rec.DurationSeconds, _ = strconv.ParseFloat(strings.TrimSpace(r[durationIdx]), 64)
		}
		out = append(out, rec)
	}

	log.WithField("rows", len(out)).Info("dataset loaded")
	return &Source{transcripts: out}, nil
}

// Conversations returns up to limit transcripts, stamped with the
// requested agent id.
func (s *Source) Conversations(_ context.Context, agentID string, limit int) ([]types.Transcript, error) {
	if limit > len(s.transcripts) {
		limit = len(s.transcripts)
	}
	out := make([]types.Transcript, limit)
	copy(out, s.transcripts[:limit])
	for i := range out {
		out[i].AgentID = agentID
	}
	return out, nil
}
