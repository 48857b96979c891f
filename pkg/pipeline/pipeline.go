// Package pipeline sequences triage stages for each inbound message and
// produces exactly one user-facing reply per terminal outcome.
package pipeline

import (
	"context"
	"errors"
	"time"

	"taskdesk/pkg/journal"
	"taskdesk/pkg/kaiten"
	"taskdesk/pkg/logx"
	"taskdesk/pkg/metrics"
	"taskdesk/pkg/pending"
	"taskdesk/pkg/task"
	"taskdesk/pkg/taskstore"
	"taskdesk/pkg/triage"
)

// Source identifies where a raw message came from.
type Source string

const (
	SourceChat  Source = "chat"
	SourceVoice Source = "voice"
)

// RawMessage is one inbound message. ID is the join key for the
// confirmation state machine and must be unique while a confirmation for it
// may be outstanding.
type RawMessage struct {
	ID     string
	Text   string
	Source Source
}

// Action is a confirmation button press.
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
)

// Reply is the single user-facing response for a terminal outcome.
// Confirm marks replies that must be rendered with confirm/cancel buttons
// keyed by MessageID. Edit marks replies that replace the confirmation
// prompt in place rather than arriving as a new message.
type Reply struct {
	Text      string
	Confirm   bool
	Edit      bool
	MessageID string
}

// Terminal outcomes, as journaled and counted.
const (
	OutcomeFiled         = "filed"
	OutcomeTicketFailed  = "ticket_failed"
	OutcomePending       = "pending"
	OutcomeCancelled     = "cancelled"
	OutcomeExpired       = "expired"
	OutcomeExtractFailed = "extract_failed"
	OutcomeError         = "error"
)

// Stage names for the failure policy table.
type Stage string

const (
	StageValidate Stage = "validate"
	StageExtract  Stage = "extract"
	StagePersist  Stage = "persist"
	StageFile     Stage = "file"
)

// FailureMode declares what a stage failure does to the message.
type FailureMode int

const (
	// FailOpen: the stage's own failure does not block the message; the
	// pipeline proceeds as if the stage had succeeded permissively.
	FailOpen FailureMode = iota
	// FailClosed: the stage's failure terminates the message with an error
	// reply and nothing downstream runs.
	FailClosed
	// FailSoft: the failure is reported but does not undo prior stages.
	FailSoft
)

// StagePolicies is the explicit per-stage failure policy. The asymmetry is
// deliberate: a broken classifier degrades to "ask less often", while a
// broken extractor must never file half-understood tasks; filing failure
// leaves the locally persisted record authoritative.
var StagePolicies = map[Stage]FailureMode{
	StageValidate: FailOpen,
	StageExtract:  FailClosed,
	StagePersist:  FailClosed,
	StageFile:     FailSoft,
}

// Pipeline wires the triage stages together.
type Pipeline struct {
	validator *triage.Validator
	extractor *triage.Extractor
	pending   pending.Store
	tasks     *taskstore.Store
	filer     *kaiten.Filer
	journal   *journal.Journal  // optional
	metrics   *metrics.Recorder // optional
	logger    *logx.Logger
	now       func() time.Time
}

// Options carries the pipeline's collaborators. Journal and Metrics may be
// nil; everything else is required.
type Options struct {
	Validator *triage.Validator
	Extractor *triage.Extractor
	Pending   pending.Store
	Tasks     *taskstore.Store
	Filer     *kaiten.Filer
	Journal   *journal.Journal
	Metrics   *metrics.Recorder
}

// New creates a pipeline.
func New(opts Options) *Pipeline {
	return &Pipeline{
		validator: opts.Validator,
		extractor: opts.Extractor,
		pending:   opts.Pending,
		tasks:     opts.Tasks,
		filer:     opts.Filer,
		journal:   opts.Journal,
		metrics:   opts.Metrics,
		logger:    logx.NewLogger("pipeline"),
		now:       task.Now,
	}
}

// Process runs the triage pipeline for one inbound message and returns the
// reply to render. Safe for concurrent use across different messages.
func (p *Pipeline) Process(ctx context.Context, msg RawMessage) Reply {
	verdict, err := p.validator.Validate(ctx, msg.Text)
	if err != nil {
		// Availability over precision when the classifier itself is down.
		if StagePolicies[StageValidate] == FailOpen {
			p.logger.Warn("validator failed for %s, failing open: %v", msg.ID, err)
			verdict = triage.Verdict{Accepted: true}
		}
	}

	if !verdict.Accepted {
		p.pending.Put(msg.ID, msg.Text)
		p.record(msg.ID, OutcomePending, "")
		p.logger.Info("message %s held for confirmation", msg.ID)
		return Reply{
			Text:      msgConfirmPrompt,
			Confirm:   true,
			MessageID: msg.ID,
		}
	}

	return p.acceptAndFile(ctx, msg.ID, msg.Text)
}

// ResolveConfirmation applies a confirm/cancel button press. progress, if
// non-nil, is invoked with an intermediate status line once a confirm has
// successfully consumed the pending entry, before extraction starts.
func (p *Pipeline) ResolveConfirmation(ctx context.Context, action Action, messageID string, progress func(string)) Reply {
	text, ok := p.pending.Take(messageID)
	if !ok {
		// Already consumed, never existed, or expired: idempotent no-op.
		p.record(messageID, OutcomeExpired, "")
		return Reply{Text: msgSessionExpired, Edit: true, MessageID: messageID}
	}

	switch action {
	case ActionConfirm:
		if progress != nil {
			progress(msgProcessing)
		}
		return p.acceptAndFile(ctx, messageID, text)
	case ActionCancel:
		p.record(messageID, OutcomeCancelled, "")
		p.logger.Info("message %s cancelled by user", messageID)
		return Reply{Text: msgCancelled, Edit: true, MessageID: messageID}
	default:
		p.record(messageID, OutcomeError, "unknown action "+string(action))
		return Reply{Text: msgSessionExpired, Edit: true, MessageID: messageID}
	}
}

// acceptAndFile runs extraction, persistence and ticket filing for accepted
// text. Persistence happens before filing: the local record is the source
// of truth and a filing failure does not undo it.
func (p *Pipeline) acceptAndFile(ctx context.Context, messageID, text string) Reply {
	rec, err := p.extractor.Extract(ctx, text, p.now())
	if err != nil {
		if errors.Is(err, triage.ErrUnparsable) {
			p.record(messageID, OutcomeExtractFailed, err.Error())
			p.logger.Warn("extraction unparsable for %s: %v", messageID, err)
			return Reply{Text: msgExtractFailed, MessageID: messageID}
		}
		p.record(messageID, OutcomeError, err.Error())
		p.logger.Error("extraction failed for %s: %v", messageID, err)
		return Reply{Text: formatError(err), MessageID: messageID}
	}

	if _, err := p.tasks.Save(rec); err != nil {
		p.record(messageID, OutcomeError, err.Error())
		p.logger.Error("persist failed for %s: %v", messageID, err)
		return Reply{Text: formatError(err), MessageID: messageID}
	}

	result := p.filer.File(ctx, rec)
	if p.metrics != nil {
		p.metrics.ObserveTicket(result.Success)
	}
	if result.Success {
		p.record(messageID, OutcomeFiled, result.CardUID)
	} else {
		p.record(messageID, OutcomeTicketFailed, result.Err)
		p.logger.Warn("ticket filing failed for %s: %s", messageID, result.Err)
	}

	return Reply{Text: formatTaskSummary(rec, result), MessageID: messageID}
}

// record journals and counts a terminal outcome. Best-effort: a journal
// failure is logged and never propagated to the message's reply.
func (p *Pipeline) record(messageID, outcome, detail string) {
	if p.metrics != nil {
		p.metrics.ObserveMessage(outcome)
		p.metrics.SetPending(p.pending.Len())
	}
	if p.journal == nil {
		return
	}
	err := p.journal.Append(journal.Entry{
		MessageID: messageID,
		Outcome:   outcome,
		Detail:    detail,
	})
	if err != nil {
		p.logger.Warn("journal append failed for %s: %v", messageID, err)
	}
}
