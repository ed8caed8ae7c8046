package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ResponseKind beschreibt die Form einer Modellantwort.
type ResponseKind int

const (
	// KindPlain ist freier Markdown-Text.
	KindPlain ResponseKind = iota
	// KindQuiz ist ein JSON-Array von Quizfragen.
	KindQuiz
)

// Classify ordnet eine rohe Modellantwort einer Form zu. Quiz-Aufgaben
// sind immer Quiz-förmig; bei allen anderen Aufgaben entscheidet eine
// Heuristik über dem Text selbst, damit ein Modell, das trotzdem Fragen
// liefert, nicht als Fließtext gerendert wird.
func Classify(task TaskType, raw string) ResponseKind {
	if task == TaskQuiz || LooksLikeQuiz(raw) {
		return KindQuiz
	}
	return KindPlain
}

// LooksLikeQuiz prüft, ob ein Text strukturell nach Quizfragen aussieht
func LooksLikeQuiz(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "question") && strings.Contains(lower, "options")
}

// ParseError meldet, dass eine quiz-förmige Antwort nicht als gültiges
// Fragen-Array gelesen werden konnte. Der Aufrufer behandelt das als
// wiederholbaren Fehler und schreibt nichts in den Gesprächsverlauf.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("quiz parse: %s", e.Reason)
}

// StripCodeFences entfernt Markdown-Codezäune um eine JSON-Antwort
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseQuiz liest ein Fragen-Array aus einer rohen Modellantwort.
// Schlägt das direkte Unmarshal fehl, wird der erste [..]-Abschnitt als
// Rettungsversuch extrahiert. Eine einzige ungültige Frage verwirft den
// gesamten Satz: ein halbes Quiz ist für den Nutzer wertlos.
func ParseQuiz(raw string) ([]QuizQuestion, error) {
	text := StripCodeFences(raw)

	var questions []QuizQuestion
	if err := json.Unmarshal([]byte(text), &questions); err != nil {
		start := strings.Index(text, "[")
		end := strings.LastIndex(text, "]")
		if start < 0 || end <= start {
			return nil, &ParseError{Reason: "kein JSON-Array in der Antwort"}
		}
		if err := json.Unmarshal([]byte(text[start:end+1]), &questions); err != nil {
			return nil, &ParseError{Reason: "Antwort ist kein gültiges Fragen-Array"}
		}
	}

	if len(questions) == 0 {
		return nil, &ParseError{Reason: "leeres Fragen-Array"}
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("Frage %d: %v", i+1, err)}
		}
	}
	return questions, nil
}
