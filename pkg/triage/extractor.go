package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taskdesk/pkg/llm"
	"taskdesk/pkg/logx"
	"taskdesk/pkg/task"
)

// ErrUnparsable marks extraction failures the user can fix by rephrasing:
// the model did not return usable JSON for this message.
var ErrUnparsable = errors.New("extraction response is not usable JSON")

// Extractor turns accepted free text into a typed task record via a single
// structured-extraction LLM call.
type Extractor struct {
	client llm.Client
	logger *logx.Logger
	now    func() time.Time
}

// NewExtractor creates an extractor backed by the given LLM client.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{
		client: client,
		logger: logx.NewLogger("extractor"),
		now:    task.Now,
	}
}

// extractionPayload is the strict JSON shape the extraction prompt requests.
type extractionPayload struct {
	Content      string  `json:"content"`
	DueDate      *string `json:"due_date"`
	KanbanColumn string  `json:"kanban_column"`
}

// Extract returns the structured record for the message text. referenceDate
// anchors relative date expressions. The record is complete and immutable on
// return; the caller is responsible for persisting it.
//
// Unknown categories are clamped to the fallback and malformed due dates to
// null, so a returned record never carries out-of-enumeration values.
func (e *Extractor) Extract(ctx context.Context, text string, referenceDate time.Time) (*task.Record, error) {
	prompt := extractionPrompt(text, referenceDate.Format(task.DateLayout))
	req := llm.NewCompletionRequest(llm.NewUserMessage(prompt))

	resp, err := e.client.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &payload); err != nil {
		e.logger.Warn("unparsable extraction response: %v", err)
		return nil, fmt.Errorf("%w: %s", ErrUnparsable, err)
	}
	if payload.Content == "" {
		return nil, fmt.Errorf("%w: missing required content field", ErrUnparsable)
	}

	record := &task.Record{
		Content:         payload.Content,
		DueDate:         normalizeDueDate(payload.DueDate),
		Category:        task.ParseCategory(payload.KanbanColumn),
		OriginalMessage: text,
		CreatedAt:       e.now(),
	}

	e.logger.Debug("extracted task: content=%q category=%q due=%v",
		record.Content, record.Category, record.DueDate)
	return record, nil
}

// normalizeDueDate clamps anything that is not an ISO calendar date to null.
func normalizeDueDate(raw *string) *string {
	if raw == nil || *raw == "" || *raw == "null" {
		return nil
	}
	if _, err := time.ParseInLocation(task.DateLayout, *raw, task.Zone); err != nil {
		return nil
	}
	return raw
}
