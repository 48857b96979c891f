package pipeline

import (
	"fmt"
	"strings"

	"taskdesk/pkg/kaiten"
	"taskdesk/pkg/task"
)

// User-facing message texts. Russian, matching the bot's audience.
const (
	msgConfirmPrompt = "🤔 Это похоже на случайное сообщение, а не на задачу.\n\n" +
		"Ты всё равно хочешь сохранить это как задачу?"
	msgProcessing     = "✅ Обработка..."
	msgSessionExpired = "⚠️ Сессия истекла. Отправь сообщение заново."
	msgCancelled      = "❌ Задача отменена."
	msgExtractFailed  = "❌ Ошибка при анализе. Попробуй ещё раз с более чётким описанием."
)

// displayDateLayout is how due dates are rendered to the user.
const displayDateLayout = "02.01.2006"

// formatTaskSummary renders the final confirmation for a saved task:
// content, optional due date, category, and the ticket outcome line.
func formatTaskSummary(rec *task.Record, result kaiten.Result) string {
	var b strings.Builder

	b.WriteString("✅ Задача сохранена\n\n")
	fmt.Fprintf(&b, "📝 Содержание: %s\n", rec.Content)

	if due, ok := rec.DueDateTime(); ok {
		fmt.Fprintf(&b, "📅 Срок: %s\n", due.Format(displayDateLayout))
	}

	fmt.Fprintf(&b, "📊 Колонка: %s\n", rec.Category)

	if result.Success {
		fmt.Fprintf(&b, "🔗 Kaiten: карточка #%d создана", result.CardID)
	} else {
		fmt.Fprintf(&b, "⚠️ Kaiten: ошибка (%s)", result.Err)
	}

	return b.String()
}

// formatError renders an unexpected stage failure for the user.
func formatError(err error) string {
	return fmt.Sprintf("❌ Ошибка: %v", err)
}
