package triage

import (
	"context"
	"encoding/json"
	"fmt"

	"taskdesk/pkg/llm"
	"taskdesk/pkg/logx"
)

// Verdict is the validator's decision for a single message. It is produced
// fresh per message and never persisted.
type Verdict struct {
	Accepted   bool
	Confidence int
}

// Validator performs the two-phase task check: the local pre-filter, then an
// LLM-backed semantic verdict.
type Validator struct {
	client llm.Client
	logger *logx.Logger
}

// NewValidator creates a validator backed by the given LLM client.
func NewValidator(client llm.Client) *Validator {
	return &Validator{
		client: client,
		logger: logx.NewLogger("validator"),
	}
}

// verdictPayload is the strict JSON shape the validation prompt requests.
type verdictPayload struct {
	IsValidTask bool `json:"is_valid_task"`
	Confidence  int  `json:"confidence"`
}

// Validate returns the verdict for the message text. A rejection by the
// pre-filter costs no model call. A returned error means the semantic check
// itself failed (transport or unparsable response); the caller decides the
// failure policy — the validator takes no position here.
func (v *Validator) Validate(ctx context.Context, text string) (Verdict, error) {
	if ObviousNonTask(text) {
		v.logger.Debug("pre-filter flagged obvious non-task: %q", text)
		return Verdict{Accepted: false}, nil
	}

	req := llm.NewCompletionRequest(llm.NewUserMessage(validationPrompt(text)))
	resp, err := v.client.Complete(ctx, req)
	if err != nil {
		return Verdict{}, fmt.Errorf("validation call failed: %w", err)
	}

	var payload verdictPayload
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &payload); err != nil {
		return Verdict{}, fmt.Errorf("validation response is not valid JSON: %w", err)
	}

	v.logger.Debug("verdict: valid=%v confidence=%d", payload.IsValidTask, payload.Confidence)
	return Verdict{Accepted: payload.IsValidTask, Confidence: payload.Confidence}, nil
}
