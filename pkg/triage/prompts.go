package triage

import (
	"fmt"
	"strings"
)

// validationPrompt asks the model for a strict JSON verdict on whether the
// message is a concrete task. Kept in Russian: the user base and the
// examples the prompt was tuned on are Russian.
func validationPrompt(message string) string {
	return fmt.Sprintf(`СТРОГО проверь, является ли это сообщение конкретной ЗАДАЧЕЙ/ДЕЛОМ.

Сообщение: "%s"

Верни JSON:
{
  "is_valid_task": true или false,
  "confidence": число от 0 до 100
}

ЗАДАЧА - это конкретное действие с понятной целью:
✅ "Купить молоко", "Позвонить клиенту", "Подготовить отчёт", "Завтра встреча в 10", "Петя должен написать код"

НЕ ЗАДАЧА - случайный текст, междометия, ненормальные слова, приветствия:
❌ "Охуенчик", "Привет", "Лол", "Кек", "Хелло", "123", просто одно-два слова без смысла

ПРАВИЛО: Если сообщение длинное (более 3 слов) и имеет смысл - вероятнее задача.
Если это просто странное слово или междометие - это точно НЕ задача.

Будь строг! Лучше переспросить чем сохранить мусор.
`, message)
}

// extractionPrompt asks the model for the structured task fields. The
// reference date is injected so relative expressions ("сегодня", "в этом
// месяце") resolve consistently.
func extractionPrompt(message, referenceDate string) string {
	return fmt.Sprintf(`Проанализируй это сообщение про задачу и верни ТОЛЬКО JSON:

Сообщение: "%s"

Сегодня: %s

Верни ТОЛЬКО валидный JSON без дополнительного текста:
{
  "content": "суть задачи (обязательно)",
  "due_date": "YYYY-MM-DD или null",
  "kanban_column": "одна из: Этот месяц, Этот день, Запланировано на конкретную дату, Делегировано мне, Делегировал исполнителю"
}

Правила:
- "Этот день" если срочно/сегодня/ASAP
- "Запланировано на конкретную дату" если есть конкретная дата ≠ сегодня
- "Делегировано мне" если кто-то задачу поручил
- "Делегировал исполнителю" если я кому-то поручил
- "Этот месяц" если срок неясен (fallback)
- due_date = null если дата не определена
`, message, referenceDate)
}

// stripFences removes a surrounding markdown code fence, which some models
// add around JSON despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
