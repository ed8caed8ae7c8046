package assistant

import (
	"errors"
	"fmt"
	"sync"
)

// QuizQuestion ist eine einzelne Multiple-Choice-Frage, wie sie das
// Modell als JSON liefert.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Validate prüft die Mindestform einer Frage
func (q QuizQuestion) Validate() error {
	if q.Question == "" {
		return errors.New("leerer Fragetext")
	}
	if len(q.Options) != 4 {
		return fmt.Errorf("%d Optionen statt 4", len(q.Options))
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return fmt.Errorf("Antwortindex %d außerhalb der Optionen", q.CorrectAnswer)
	}
	return nil
}

// Attempt ist ein laufender Quizversuch. Auswahlen dürfen bis zur
// Abgabe beliebig überschrieben werden; nach der Abgabe ist der Versuch
// eingefroren. Alle Methoden sind nebenläufig sicher – derselbe Versuch
// wird von parallelen HTTP-Anfragen geteilt.
type Attempt struct {
	mu        sync.Mutex
	questions []QuizQuestion
	selected  map[int]int
	submitted bool
}

// NewAttempt startet einen Versuch über den gegebenen Fragen.
func NewAttempt(questions []QuizQuestion) *Attempt {
	qs := make([]QuizQuestion, len(questions))
	copy(qs, questions)
	return &Attempt{questions: qs, selected: make(map[int]int)}
}

// Select merkt eine Antwort für eine Frage vor. Nach der Abgabe ist der
// Aufruf wirkungslos, kein Fehler: späte Klicks der UI sind harmlos.
func (a *Attempt) Select(question, option int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if question < 0 || question >= len(a.questions) {
		return fmt.Errorf("Frage %d existiert nicht", question)
	}
	if option < 0 || option >= len(a.questions[question].Options) {
		return fmt.Errorf("Option %d existiert nicht", option)
	}
	if a.submitted {
		return nil
	}
	a.selected[question] = option
	return nil
}

// Submit friert den Versuch ein und liefert die Punktzahl. Erst wenn
// alle Fragen beantwortet sind, ist die Abgabe erlaubt. Wiederholte
// Abgaben sind idempotent.
func (a *Attempt) Submit() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.submitted {
		return a.score(), nil
	}
	if len(a.selected) < len(a.questions) {
		return 0, fmt.Errorf("%d von %d Fragen beantwortet", len(a.selected), len(a.questions))
	}
	a.submitted = true
	return a.score(), nil
}

// Submitted meldet, ob der Versuch abgegeben wurde.
func (a *Attempt) Submitted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.submitted
}

// Score zählt die korrekt beantworteten Fragen.
func (a *Attempt) Score() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.score()
}

// score erwartet gehaltenen Mutex
func (a *Attempt) score() int {
	score := 0
	for i, q := range a.questions {
		if sel, ok := a.selected[i]; ok && sel == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// QuestionView ist die Ansicht einer Frage im laufenden Versuch.
// Lösungsindex und Erklärung erscheinen erst nach der Abgabe.
type QuestionView struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Selected      *int     `json:"selected,omitempty"`
	CorrectAnswer *int     `json:"correctAnswer,omitempty"`
	Correct       *bool    `json:"correct,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// AttemptView ist der serialisierbare Zustand eines Versuchs.
type AttemptView struct {
	Questions []QuestionView `json:"questions"`
	Submitted bool           `json:"submitted"`
	Score     *int           `json:"score,omitempty"`
	Total     int            `json:"total"`
}

// View rendert den aktuellen Zustand ohne Lösungen preiszugeben.
func (a *Attempt) View() AttemptView {
	a.mu.Lock()
	defer a.mu.Unlock()

	view := AttemptView{Submitted: a.submitted, Total: len(a.questions)}
	for i, q := range a.questions {
		qv := QuestionView{Question: q.Question, Options: append([]string(nil), q.Options...)}
		if sel, ok := a.selected[i]; ok {
			s := sel
			qv.Selected = &s
		}
		if a.submitted {
			correct := q.CorrectAnswer
			qv.CorrectAnswer = &correct
			ok := qv.Selected != nil && *qv.Selected == correct
			qv.Correct = &ok
			qv.Explanation = q.Explanation
		}
		view.Questions = append(view.Questions, qv)
	}
	if a.submitted {
		score := a.score()
		view.Score = &score
	}
	return view
}
