package intake

import (
	"fmt"
	"strings"
)

const cleanSystemPrompt = `Ты — редактор семейных мемуаров. Тебе передают расшифровку устного рассказа пожилого человека о его жизни. Приведи текст в порядок, сохранив голос рассказчика.`

func buildCleanUserMessage(transcript, questionText string) string {
	var b strings.Builder

	if questionText != "" {
		b.WriteString(fmt.Sprintf("Рассказ записан в ответ на вопрос: %s\n\n", questionText))
	}
	b.WriteString("Расшифровка:\n")
	b.WriteString(transcript)
	b.WriteString(`

Правила:
1. Убери слова-паразиты, повторы и оговорки.
2. Расставь знаки препинания и раздели текст на абзацы.
3. Сохрани все факты, имена, даты и характерные выражения рассказчика.
4. Ничего не добавляй от себя. Не сокращай содержание.
5. Ответь только очищенным текстом, без пояснений.`)

	return b.String()
}

const classifySystemPrompt = `Ты анализируешь воспоминание для семейного архива. Извлеки из текста структурированные метаданные.`

func buildClassifyUserMessage(cleaned string) string {
	var b strings.Builder

	b.WriteString("Воспоминание:\n")
	b.WriteString(cleaned)
	b.WriteString(`

Извлеки:
1. Короткий заголовок на русском (3-7 слов).
2. Тематические теги на английском в snake_case (1-6 штук).
3. Упомянутых людей, как они названы в тексте.
4. Упомянутые места.
5. Датировку: точный год (year), диапазон лет (range), относительное указание вроде "в детстве" (relative) или unknown, если в тексте нет привязки ко времени.`)

	return b.String()
}
