package assistant

import (
	"fmt"
	"strings"
)

// ComposePrompts baut System- und Aufgabeninstruktion aus der Anfrage.
// Die Systeminstruktion legt Persona und Ausgabesprache fest, die
// Aufgabeninstruktion das Verhalten je Task-Typ.
func ComposePrompts(req TaskRequest) (system, task string) {
	outputLang := "English"
	if req.Language == LangArabic {
		outputLang = "Arabic"
	}
	system = fmt.Sprintf("You are UniShare AI, a study assistant for university students. Output in %s. Use Markdown.", outputLang)

	switch req.Task {
	case TaskSummary:
		task = "Task: SUMMARY. Extract the top 5-7 key ideas of the document as bullet points. Close with exactly one actionable study tip."

	case TaskQuiz:
		task = `Task: QUIZ. Generate exactly 5 multiple-choice questions about the document.
Output ONLY a JSON array, no prose, no markdown fences. Each element:
{"question": "...", "options": ["...","...","...","..."], "correctAnswer": 0, "explanation": "..."}
"options" has exactly 4 entries, "correctAnswer" is the 0-based index of the right option.`

	case TaskRoadmap:
		task = "Task: ROADMAP. Create an ordered, staged study plan for this document, from foundational concepts to advanced topics. Number the stages."

	case TaskTags:
		task = "Task: TAGS. Extract exactly 5 short keywords describing the document. Output only the keywords, comma-separated, no other text."

	case TaskExplain:
		// Begrüßungen werden vorgelagert abgefangen und erreichen diesen
		// Zweig nie
		if looksLikeQuestion(req.Query) {
			task = fmt.Sprintf("Task: TUTOR. User question: %q. Answer strictly from the document content. If the document does not contain the answer, say so.", req.Query)
		} else {
			task = fmt.Sprintf("Task: TUTOR. User input: %q. Give a clear, high-level explanation of the document with this request in mind.", req.Query)
		}
	}

	return system, task
}

// ResponseFormatFor liefert den Ausgabeformat-Hinweis: strukturiert nur
// für QUIZ, sonst Fließtext
func ResponseFormatFor(task TaskType) ResponseFormat {
	if task == TaskQuiz {
		return FormatJSON
	}
	return FormatPlain
}

// looksLikeQuestion erkennt direkte Fragen im Freitext
func looksLikeQuestion(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(s, "?") || strings.HasSuffix(s, "؟") {
		return true
	}
	for _, w := range []string{"what", "why", "how", "when", "where", "who", "which", "can ", "does ", "is ", "are "} {
		if strings.HasPrefix(s, w) {
			return true
		}
	}
	return false
}
