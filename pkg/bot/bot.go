// Package bot adapts Telegram updates to the triage pipeline. It owns all
// Telegram specifics (polling, keyboards, callbacks, voice downloads) so the
// pipeline stays transport-agnostic.
package bot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskdesk/pkg/logx"
	"taskdesk/pkg/pipeline"
	"taskdesk/pkg/transcribe"
)

const (
	pollTimeoutSeconds = 30
	maxVoiceBytes      = 20 << 20 // Telegram bot API download cap.

	greeting = "👋 Привет! Отправь мне задачу текстом или голосом, " +
		"и я сохраню её и заведу карточку в Kaiten."
	msgVoiceUnsupported = "⚠️ Распознавание голоса не настроено. Отправь задачу текстом."
	msgVoiceFailed      = "❌ Не удалось распознать голосовое сообщение. Попробуй ещё раз."

	buttonConfirm = "✅ Да, это задача"
	buttonCancel  = "❌ Отмена"
)

// Bot runs the Telegram long-polling loop and routes updates to the pipeline.
type Bot struct {
	api         *tgbotapi.BotAPI
	pipeline    *pipeline.Pipeline
	transcriber transcribe.Transcriber // nil disables voice messages
	httpClient  *http.Client
	logger      *logx.Logger
}

// New creates a bot for the given token. transcriber may be nil, in which
// case voice messages get a polite refusal.
func New(token string, p *pipeline.Pipeline, transcriber transcribe.Transcriber) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}
	return &Bot{
		api:         api,
		pipeline:    p,
		transcriber: transcriber,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		logger:      logx.NewLogger("bot"),
	}, nil
}

// Run polls for updates until ctx is cancelled. Each update is handled in
// its own goroutine; the pipeline is safe for concurrent use.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("authorized as @%s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("update loop stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	b.sendTyping(msg.Chat.ID)

	raw := pipeline.RawMessage{
		ID:     messageKey(msg.Chat.ID, msg.MessageID),
		Source: pipeline.SourceChat,
	}

	switch {
	case msg.Voice != nil:
		text, err := b.transcribeVoice(ctx, msg.Voice)
		if err != nil {
			b.logger.Warn("voice handling failed in chat %d: %v", msg.Chat.ID, err)
			b.sendText(msg.Chat.ID, msgVoiceFailed)
			return
		}
		if text == "" {
			b.sendText(msg.Chat.ID, msgVoiceUnsupported)
			return
		}
		raw.Text = text
		raw.Source = pipeline.SourceVoice
	case msg.Text != "":
		raw.Text = msg.Text
	default:
		return
	}

	reply := b.pipeline.Process(ctx, raw)
	b.sendReply(msg.Chat.ID, reply)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.sendText(msg.Chat.ID, greeting)
	default:
		b.logger.Debug("ignoring command /%s in chat %d", msg.Command(), msg.Chat.ID)
	}
}

// handleCallback resolves a confirmation button press. The original prompt
// is edited in place for intermediate and negative outcomes; a successful
// confirmation gets its task summary as a fresh message.
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.logger.Warn("callback ack failed: %v", err)
	}
	if cq.Message == nil {
		return
	}

	action, messageID, ok := parseCallbackData(cq.Data)
	if !ok {
		b.logger.Warn("unparsable callback data: %q", cq.Data)
		return
	}

	chatID := cq.Message.Chat.ID
	promptID := cq.Message.MessageID
	progress := func(text string) {
		b.editText(chatID, promptID, text)
	}

	reply := b.pipeline.ResolveConfirmation(ctx, action, messageID, progress)
	if reply.Edit {
		b.editText(chatID, promptID, reply.Text)
		return
	}
	// Confirmed and processed: the prompt already shows the progress line,
	// the summary arrives as its own message.
	b.sendText(chatID, reply.Text)
}

func (b *Bot) transcribeVoice(ctx context.Context, voice *tgbotapi.Voice) (string, error) {
	if b.transcriber == nil {
		return "", nil
	}
	if voice.FileSize > maxVoiceBytes {
		return "", fmt.Errorf("voice file too large: %d bytes", voice.FileSize)
	}

	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: voice.FileID})
	if err != nil {
		return "", fmt.Errorf("failed to resolve voice file: %w", err)
	}

	audio, err := b.download(ctx, file.Link(b.api.Token))
	if err != nil {
		return "", fmt.Errorf("failed to download voice file: %w", err)
	}

	return b.transcriber.Transcribe(ctx, bytes.NewReader(audio))
}

func (b *Bot) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxVoiceBytes))
}

func (b *Bot) sendReply(chatID int64, reply pipeline.Reply) {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if reply.Confirm {
		msg.ReplyMarkup = confirmKeyboard(reply.MessageID)
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send failed in chat %d: %v", chatID, err)
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("send failed in chat %d: %v", chatID, err)
	}
}

func (b *Bot) editText(chatID int64, messageID int, text string) {
	if _, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		b.logger.Warn("edit failed in chat %d: %v", chatID, err)
	}
}

func (b *Bot) sendTyping(chatID int64) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Debug("typing action failed in chat %d: %v", chatID, err)
	}
}

// messageKey builds the pipeline's join key for one Telegram message.
func messageKey(chatID int64, messageID int) string {
	return fmt.Sprintf("%d:%d", chatID, messageID)
}

// confirmKeyboard renders the confirm/cancel buttons for a held message.
func confirmKeyboard(messageID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(buttonConfirm, "confirm_"+messageID),
			tgbotapi.NewInlineKeyboardButtonData(buttonCancel, "cancel_"+messageID),
		),
	)
}

// parseCallbackData splits "confirm_<id>" / "cancel_<id>" button payloads.
func parseCallbackData(data string) (pipeline.Action, string, bool) {
	parts := strings.SplitN(data, "_", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", false
	}
	switch parts[0] {
	case "confirm":
		return pipeline.ActionConfirm, parts[1], true
	case "cancel":
		return pipeline.ActionCancel, parts[1], true
	default:
		return "", "", false
	}
}
