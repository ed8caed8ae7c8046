package assistant

import (
	"fmt"

	"unishare/internal/models"
)

// TaskType ist eine der fünf unterstützten KI-Aufgaben.
// Die Bezeichner sind Teil des UI-Vertrags und bleiben stabil.
type TaskType string

const (
	TaskSummary TaskType = "SUMMARY"
	TaskQuiz    TaskType = "QUIZ"
	TaskRoadmap TaskType = "ROADMAP"
	TaskTags    TaskType = "TAGS"
	TaskExplain TaskType = "EXPLAIN"
)

// ParseTaskType prüft einen Task-Bezeichner aus einer Anfrage
func ParseTaskType(s string) (TaskType, error) {
	switch TaskType(s) {
	case TaskSummary, TaskQuiz, TaskRoadmap, TaskTags, TaskExplain:
		return TaskType(s), nil
	}
	return "", fmt.Errorf("unbekannter task-typ: %q", s)
}

// Language ist die gewünschte Ausgabesprache, pro Anfrage wählbar
type Language string

const (
	LangEnglish Language = "en"
	LangArabic  Language = "ar"
)

// ParseLanguage prüft einen Sprach-Bezeichner; leer fällt auf Englisch zurück
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LangEnglish, LangArabic:
		return Language(s), nil
	case "":
		return LangEnglish, nil
	}
	return "", fmt.Errorf("unbekannte sprache: %q", s)
}

// TaskRequest beschreibt eine einzelne Assistenten-Anfrage.
// Query ist nur für EXPLAIN erforderlich.
type TaskRequest struct {
	Task     TaskType
	Language Language
	Query    string
	Document models.DocumentReference
}

// Validate prüft die Anfrage vor dem Pipeline-Start
func (r *TaskRequest) Validate() error {
	if r.Document.ID == "" || r.Document.URL == "" {
		return fmt.Errorf("dokumentreferenz unvollständig")
	}
	if _, err := ParseTaskType(string(r.Task)); err != nil {
		return err
	}
	if r.Task == TaskExplain && r.Query == "" {
		return fmt.Errorf("EXPLAIN benötigt eine freitext-frage")
	}
	return nil
}
